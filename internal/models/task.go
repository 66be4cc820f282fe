package models

// TaskPriority classifies how urgent a task is.
type TaskPriority string

const (
	TaskPriorityRegular TaskPriority = "regular"
	TaskPriorityUrgent  TaskPriority = "urgent"
)

// TaskStatus is the task lifecycle state.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a household to-do item. CreatedBy/CompletedBy hold owner ids and
// may be empty. Deletion is only expected for completed tasks; that rule is
// enforced by the caller, not the store.
type Task struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Priority      TaskPriority `json:"priority"`
	CreatedBy     string       `json:"createdBy,omitempty"`
	CreatedAt     string       `json:"createdAt"`
	CompletedBy   string       `json:"completedBy,omitempty"`
	CompletedAt   string       `json:"completedAt,omitempty"`
	Status        TaskStatus   `json:"status"`
	AttachmentURL string       `json:"attachmentUrl,omitempty"`
	UpdatedAt     string       `json:"updatedAt"`
}

func (t Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}

package models

// ScheduledEvent is a calendar item. ScheduledAt may lie in the future or the
// past; overdue detection is a query concern, not a stored state.
type ScheduledEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ScheduledAt string     `json:"scheduledAt"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	CompletedBy string     `json:"completedBy,omitempty"`
	CompletedAt string     `json:"completedAt,omitempty"`
	Status      TaskStatus `json:"status"`
	UpdatedAt   string     `json:"updatedAt"`
}

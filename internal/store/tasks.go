package store

import (
	"context"
	"strings"
	"time"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/localdb"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
	"github.com/avolkov/hearth/internal/remote"
	"github.com/avolkov/hearth/internal/syncx"
)

// TasksState is the task store's slice, newest first.
type TasksState struct {
	Tasks []models.Task `json:"tasks"`
}

// Tasks owns the household to-do list. Mutations are optimistic: local state
// updates first, the backend mirror is best-effort, except Delete, which
// reverts the local removal when the remote delete fails.
type Tasks struct {
	c      *Container[TasksState]
	remote remote.TaskRepository
	log    logging.Logger
}

func NewTasks(repo remote.TaskRepository, log logging.Logger) *Tasks {
	return &Tasks{
		c:      NewContainer(TasksState{}),
		remote: repo,
		log:    log.With("store", "tasks"),
	}
}

func (s *Tasks) List() []models.Task {
	return s.c.Get().Tasks
}

// Add validates the title, creates the task locally and mirrors it remotely.
func (s *Tasks) Add(ctx context.Context, title string, priority models.TaskPriority, createdBy, attachmentURL string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, common.ErrEmptyName
	}
	if priority == "" {
		priority = models.TaskPriorityRegular
	}

	now := models.NowISO()
	t := models.Task{
		ID:            models.NewID(),
		Title:         title,
		Priority:      priority,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		Status:        models.TaskStatusPending,
		AttachmentURL: attachmentURL,
		UpdatedAt:     now,
	}

	s.c.Update(func(st TasksState) TasksState {
		st.Tasks = append([]models.Task{t}, st.Tasks...)
		return st
	})

	if err := s.remote.Upsert(ctx, t); err != nil {
		s.log.Error(ctx, "task sync failed", "id", t.ID, "error", err)
	}
	return t, nil
}

// Toggle flips a task between pending and completed.
func (s *Tasks) Toggle(ctx context.Context, id, by string) error {
	var updated models.Task
	found := false

	s.c.Update(func(st TasksState) TasksState {
		next := make([]models.Task, len(st.Tasks))
		copy(next, st.Tasks)
		for i, t := range next {
			if t.ID != id {
				continue
			}
			now := models.NowISO()
			if t.Completed() {
				t.Status = models.TaskStatusPending
				t.CompletedBy = ""
				t.CompletedAt = ""
			} else {
				t.Status = models.TaskStatusCompleted
				t.CompletedBy = by
				t.CompletedAt = now
			}
			t.UpdatedAt = now
			next[i] = t
			updated = t
			found = true
			break
		}
		st.Tasks = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Upsert(ctx, updated); err != nil {
		s.log.Error(ctx, "task sync failed", "id", id, "error", err)
	}
	return nil
}

// Delete removes a task locally and issues an explicit remote delete (the
// bulk upsert cannot express deletions). If the remote delete fails, the task
// is re-inserted locally: a local-only deletion that silently failed
// remotely would otherwise drift across devices forever.
func (s *Tasks) Delete(ctx context.Context, id string) error {
	var removed models.Task
	idx := -1

	s.c.Update(func(st TasksState) TasksState {
		next := make([]models.Task, 0, len(st.Tasks))
		for i, t := range st.Tasks {
			if t.ID == id {
				removed = t
				idx = i
				continue
			}
			next = append(next, t)
		}
		st.Tasks = next
		return st
	})

	if idx < 0 {
		return common.ErrNotFound
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "task delete failed remotely, restoring locally", "id", id, "error", err)
		s.c.Update(func(st TasksState) TasksState {
			next := make([]models.Task, 0, len(st.Tasks)+1)
			at := min(idx, len(st.Tasks))
			next = append(next, st.Tasks[:at]...)
			next = append(next, removed)
			next = append(next, st.Tasks[at:]...)
			st.Tasks = next
			return st
		})
		return err
	}
	return nil
}

// Hydrate restores the persisted snapshot, if any.
func (s *Tasks) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st TasksState
	ok, err := snaps.Load(ctx, localdb.KeyTasks, &st)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(st)
	}
	return nil
}

// AttachPersistence snapshots the whole slice on every change.
func (s *Tasks) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyTasks, func(st TasksState) TasksState { return st }, s.log)
}

// AttachPush schedules a debounced whole-slice upsert after every change
// once initial load has finished.
func (s *Tasks) AttachPush(ctx context.Context, delay time.Duration) {
	deb := syncx.NewDebounced(delay)
	s.c.Subscribe(func(st TasksState) {
		if !s.c.Loaded() {
			return
		}
		snapshot := st.Tasks
		deb.Call(func() {
			if err := s.remote.UpsertAll(ctx, snapshot); err != nil {
				s.log.Error(ctx, "bulk task push failed", "error", err)
			}
		})
	})
}

// Domain adapts the store to the initial-load reconciler.
func (s *Tasks) Domain(log logging.Logger, attempts int, base time.Duration) syncx.Domain {
	return syncx.SliceDomain[models.Task]{
		DomainName: "tasks",
		Log:        log,
		Attempts:   attempts,
		BaseDelay:  base,
		Fetch:      s.remote.FetchAll,
		Local:      func() []models.Task { return s.c.Get().Tasks },
		Apply:      func(ts []models.Task) { s.c.Replace(TasksState{Tasks: ts}) },
		Push:       s.remote.UpsertAll,
	}
}

func (s *Tasks) MarkLoaded() {
	s.c.MarkLoaded()
}

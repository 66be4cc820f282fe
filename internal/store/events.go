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

// EventsState is the scheduled-event store's slice, ordered by scheduled time.
type EventsState struct {
	Events []models.ScheduledEvent `json:"events"`
}

// Events owns the household calendar.
type Events struct {
	c      *Container[EventsState]
	remote remote.EventRepository
	log    logging.Logger
}

func NewEvents(repo remote.EventRepository, log logging.Logger) *Events {
	return &Events{
		c:      NewContainer(EventsState{}),
		remote: repo,
		log:    log.With("store", "events"),
	}
}

func (s *Events) List() []models.ScheduledEvent {
	return s.c.Get().Events
}

// Overdue returns pending events scheduled before now.
func (s *Events) Overdue(now time.Time) []models.ScheduledEvent {
	var out []models.ScheduledEvent
	for _, e := range s.c.Get().Events {
		if e.Status != models.TaskStatusPending {
			continue
		}
		at, err := models.ParseISO(e.ScheduledAt)
		if err != nil {
			continue
		}
		if at.Before(now) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Events) Add(ctx context.Context, title, scheduledAt, createdBy string) (models.ScheduledEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.ScheduledEvent{}, common.ErrEmptyName
	}
	if _, err := models.ParseISO(scheduledAt); err != nil {
		return models.ScheduledEvent{}, common.ErrValidation
	}

	now := models.NowISO()
	e := models.ScheduledEvent{
		ID:          models.NewID(),
		Title:       title,
		ScheduledAt: scheduledAt,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		Status:      models.TaskStatusPending,
		UpdatedAt:   now,
	}

	s.c.Update(func(st EventsState) EventsState {
		st.Events = append([]models.ScheduledEvent{e}, st.Events...)
		return st
	})

	if err := s.remote.Upsert(ctx, e); err != nil {
		s.log.Error(ctx, "event sync failed", "id", e.ID, "error", err)
	}
	return e, nil
}

func (s *Events) Complete(ctx context.Context, id, by string) error {
	var updated models.ScheduledEvent
	found := false

	s.c.Update(func(st EventsState) EventsState {
		next := make([]models.ScheduledEvent, len(st.Events))
		copy(next, st.Events)
		for i, e := range next {
			if e.ID != id || e.Status == models.TaskStatusCompleted {
				continue
			}
			now := models.NowISO()
			e.Status = models.TaskStatusCompleted
			e.CompletedBy = by
			e.CompletedAt = now
			e.UpdatedAt = now
			next[i] = e
			updated = e
			found = true
			break
		}
		st.Events = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Upsert(ctx, updated); err != nil {
		s.log.Error(ctx, "event sync failed", "id", id, "error", err)
	}
	return nil
}

func (s *Events) Delete(ctx context.Context, id string) error {
	found := false

	s.c.Update(func(st EventsState) EventsState {
		next := make([]models.ScheduledEvent, 0, len(st.Events))
		for _, e := range st.Events {
			if e.ID == id {
				found = true
				continue
			}
			next = append(next, e)
		}
		st.Events = next
		return st
	})

	if !found {
		return common.ErrNotFound
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "event delete failed remotely", "id", id, "error", err)
	}
	return nil
}

func (s *Events) Hydrate(ctx context.Context, snaps *localdb.Snapshots) error {
	var st EventsState
	ok, err := snaps.Load(ctx, localdb.KeyEvents, &st)
	if err != nil {
		return err
	}
	if ok {
		s.c.Replace(st)
	}
	return nil
}

func (s *Events) AttachPersistence(ctx context.Context, snaps *localdb.Snapshots) {
	persistOn(ctx, s.c, snaps, localdb.KeyEvents, func(st EventsState) EventsState { return st }, s.log)
}

func (s *Events) AttachPush(ctx context.Context, delay time.Duration) {
	deb := syncx.NewDebounced(delay)
	s.c.Subscribe(func(st EventsState) {
		if !s.c.Loaded() {
			return
		}
		snapshot := st.Events
		deb.Call(func() {
			if err := s.remote.UpsertAll(ctx, snapshot); err != nil {
				s.log.Error(ctx, "bulk event push failed", "error", err)
			}
		})
	})
}

func (s *Events) Domain(log logging.Logger, attempts int, base time.Duration) syncx.Domain {
	return syncx.SliceDomain[models.ScheduledEvent]{
		DomainName: "scheduled_events",
		Log:        log,
		Attempts:   attempts,
		BaseDelay:  base,
		Fetch:      s.remote.FetchAll,
		Local:      func() []models.ScheduledEvent { return s.c.Get().Events },
		Apply:      func(es []models.ScheduledEvent) { s.c.Replace(EventsState{Events: es}) },
		Push:       s.remote.UpsertAll,
	}
}

func (s *Events) MarkLoaded() {
	s.c.MarkLoaded()
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkov/hearth/internal/common"
	"github.com/avolkov/hearth/internal/logging"
	"github.com/avolkov/hearth/internal/models"
)

func newEventsFixture(t *testing.T) (*Events, *fakeRepo[models.ScheduledEvent]) {
	t.Helper()
	repo := newFakeRepo(func(x models.ScheduledEvent) string { return x.ID })
	return NewEvents(repo, logging.NewNopLogger()), repo
}

func TestEventsAddValidatesTimestamp(t *testing.T) {
	s, _ := newEventsFixture(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "Dentist", "tomorrow at noon", "alice")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Add(ctx, "", "2026-09-01T18:00:00Z", "alice")
	require.ErrorIs(t, err, common.ErrEmptyName)

	e, err := s.Add(ctx, "Dentist", "2026-09-01T18:00:00Z", "alice")
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, e.Status)
}

func TestEventsComplete(t *testing.T) {
	s, repo := newEventsFixture(t)
	ctx := context.Background()

	e, _ := s.Add(ctx, "Dentist", "2026-09-01T18:00:00Z", "alice")

	require.NoError(t, s.Complete(ctx, e.ID, "bob"))
	got := s.List()[0]
	require.Equal(t, models.TaskStatusCompleted, got.Status)
	require.Equal(t, "bob", got.CompletedBy)

	// completing twice finds nothing left to complete
	require.ErrorIs(t, s.Complete(ctx, e.ID, "bob"), common.ErrNotFound)

	mirrored, ok := repo.get(e.ID)
	require.True(t, ok)
	require.Equal(t, models.TaskStatusCompleted, mirrored.Status)
}

func TestEventsDeleteDoesNotRevert(t *testing.T) {
	s, repo := newEventsFixture(t)
	ctx := context.Background()

	e, _ := s.Add(ctx, "Dentist", "2026-09-01T18:00:00Z", "alice")
	repo.setFail(false, true, false)

	// unlike tasks, a failed remote delete keeps the local removal
	require.NoError(t, s.Delete(ctx, e.ID))
	require.Empty(t, s.List())
}

func TestEventsOverdue(t *testing.T) {
	s, _ := newEventsFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	past, _ := s.Add(ctx, "Missed it", "2026-08-29T10:00:00Z", "alice")
	future, _ := s.Add(ctx, "Still coming", "2026-09-05T10:00:00Z", "alice")
	done, _ := s.Add(ctx, "Handled", "2026-08-01T10:00:00Z", "alice")
	require.NoError(t, s.Complete(ctx, done.ID, "alice"))

	overdue := s.Overdue(now)
	require.Len(t, overdue, 1)
	require.Equal(t, past.ID, overdue[0].ID)
	_ = future
}

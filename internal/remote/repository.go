// Package remote holds the backend table adapters: one repository per hosted
// Postgres table, each converting between rows and app models. The sync
// engine only mirrors data through these; it never owns it.
package remote

import (
	"context"

	"github.com/avolkov/hearth/internal/models"
)

// TaskRepository mirrors the tasks table.
type TaskRepository interface {
	FetchAll(ctx context.Context) ([]models.Task, error)
	Upsert(ctx context.Context, t models.Task) error
	UpsertAll(ctx context.Context, ts []models.Task) error
	Delete(ctx context.Context, id string) error
}

// EventRepository mirrors the scheduled_events table.
type EventRepository interface {
	FetchAll(ctx context.Context) ([]models.ScheduledEvent, error)
	Upsert(ctx context.Context, e models.ScheduledEvent) error
	UpsertAll(ctx context.Context, es []models.ScheduledEvent) error
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository mirrors the expenses table.
type ExpenseRepository interface {
	FetchAll(ctx context.Context) ([]models.Expense, error)
	Upsert(ctx context.Context, e models.Expense) error
	UpsertAll(ctx context.Context, es []models.Expense) error
	Delete(ctx context.Context, id string) error
}

// OwnerRepository mirrors the owners table.
type OwnerRepository interface {
	FetchAll(ctx context.Context) ([]models.Owner, error)
	Upsert(ctx context.Context, o models.Owner) error
	UpsertAll(ctx context.Context, os []models.Owner) error
	Delete(ctx context.Context, id string) error
}

// PermissionsRepository mirrors the app_permissions table. The backend keeps
// permissions as rows; the local store keys them by owner id.
type PermissionsRepository interface {
	FetchAll(ctx context.Context) ([]models.OwnerPermissions, error)
	Upsert(ctx context.Context, p models.OwnerPermissions) error
	UpsertAll(ctx context.Context, ps []models.OwnerPermissions) error
	Delete(ctx context.Context, ownerID string) error
}

// TagRepository mirrors the tags table.
type TagRepository interface {
	FetchAll(ctx context.Context) ([]models.Tag, error)
	Upsert(ctx context.Context, t models.Tag) error
	UpsertAll(ctx context.Context, ts []models.Tag) error
	Delete(ctx context.Context, id string) error
}

// TabRepository mirrors the singleton running_tab table.
type TabRepository interface {
	FetchAll(ctx context.Context) ([]models.RunningTab, error)
	Upsert(ctx context.Context, t models.RunningTab) error
	UpsertAll(ctx context.Context, ts []models.RunningTab) error
}

// HistoryRepository mirrors the append-only tab_history table. Entries are
// never updated after creation; the upsert shape exists so duplicate delivery
// from concurrent pushes stays idempotent.
type HistoryRepository interface {
	FetchAll(ctx context.Context) ([]models.TabHistoryEntry, error)
	Upsert(ctx context.Context, e models.TabHistoryEntry) error
	UpsertAll(ctx context.Context, es []models.TabHistoryEntry) error
}

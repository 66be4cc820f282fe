// Package localdb is the on-device persistence layer: one SQLite table of
// JSON snapshots, keyed by a fixed per-store name. Each store persists an
// explicit subset of its state under its own key; anything excluded from the
// subset (ledger history, most notably) is re-fetched from the backend on
// load instead.
package localdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/localdb/migrations"
	"github.com/avolkov/hearth/internal/models"
)

// Fixed snapshot keys, one per store.
const (
	KeyTasks       = "tasks-storage"
	KeyEvents      = "events-storage"
	KeyOwners      = "owners-storage"
	KeyPermissions = "permissions-storage"
	KeyTags        = "tags-storage"
	KeyTab         = "tab-storage"
	KeySettings    = "settings-storage"
)

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the snapshot database at the given path and
// brings its schema up to date.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Snapshots reads and writes per-store JSON snapshots.
type Snapshots struct {
	db dbx.DBTX
}

// NewSnapshots returns a snapshot repository bound to the given DBTX.
func NewSnapshots(db dbx.DBTX) *Snapshots {
	return &Snapshots{db: db}
}

// Save marshals v and upserts it under key.
func (s *Snapshots) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot[%s]: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, models.NowISO())
	if err != nil {
		return fmt.Errorf("failed to save snapshot[%s]: %w", key, err)
	}
	return nil
}

// Load unmarshals the snapshot under key into v. It returns false and leaves
// v untouched when no snapshot exists.
func (s *Snapshots) Load(ctx context.Context, key string, v any) (bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot[%s]: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal snapshot[%s]: %w", key, err)
	}
	return true, nil
}

// Delete removes the snapshot under key. Missing keys are not an error.
func (s *Snapshots) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w", key, err)
	}
	return nil
}

package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresTasks implements TaskRepository over a dbx.DBTX.
type PostgresTasks struct {
	db dbx.DBTX
}

func NewPostgresTasks(db dbx.DBTX) *PostgresTasks {
	return &PostgresTasks{db: db}
}

func (r *PostgresTasks) FetchAll(ctx context.Context) ([]models.Task, error) {
	query := `
		SELECT id, title, priority, created_by, created_at, completed_by, completed_at,
			status, attachment_url, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []models.Task
	for rows.Next() {
		var item models.Task
		var createdBy, completedBy, completedAt, attachmentURL sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Priority, &createdBy, &item.CreatedAt,
			&completedBy, &completedAt, &item.Status, &attachmentURL, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.CreatedBy = fromNullStr(createdBy)
		item.CompletedBy = fromNullStr(completedBy)
		item.CompletedAt = fromNullStr(completedAt)
		item.AttachmentURL = fromNullStr(attachmentURL)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert inserts or updates a task by id. Bulk pushes go through UpsertAll;
// this single-row form backs the direct per-action sync.
func (r *PostgresTasks) Upsert(ctx context.Context, t models.Task) error {
	return upsertTask(ctx, r.db, t)
}

func upsertTask(ctx context.Context, db dbx.DBTX, t models.Task) error {
	query := `
		INSERT INTO tasks (id, title, priority, created_by, created_at, completed_by,
			completed_at, status, attachment_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			priority = EXCLUDED.priority,
			completed_by = EXCLUDED.completed_by,
			completed_at = EXCLUDED.completed_at,
			status = EXCLUDED.status,
			attachment_url = EXCLUDED.attachment_url,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		t.ID, t.Title, t.Priority, nullStr(t.CreatedBy), t.CreatedAt, nullStr(t.CompletedBy),
		nullStr(t.CompletedAt), t.Status, nullStr(t.AttachmentURL), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}
	return nil
}

// UpsertAll mirrors the whole local slice in one transaction. It never
// deletes remote rows; deletions are always issued explicitly by the owning
// action.
func (r *PostgresTasks) UpsertAll(ctx context.Context, ts []models.Task) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range ts {
			if err := upsertTask(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresTasks) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

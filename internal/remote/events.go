package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresEvents implements EventRepository over a dbx.DBTX.
type PostgresEvents struct {
	db dbx.DBTX
}

func NewPostgresEvents(db dbx.DBTX) *PostgresEvents {
	return &PostgresEvents{db: db}
}

func (r *PostgresEvents) FetchAll(ctx context.Context) ([]models.ScheduledEvent, error) {
	query := `
		SELECT id, title, scheduled_at, created_by, created_at, completed_by, completed_at,
			status, updated_at
		FROM scheduled_events
		ORDER BY scheduled_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select scheduled events: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledEvent
	for rows.Next() {
		var item models.ScheduledEvent
		var createdBy, completedBy, completedAt sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.ScheduledAt, &createdBy, &item.CreatedAt,
			&completedBy, &completedAt, &item.Status, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.CreatedBy = fromNullStr(createdBy)
		item.CompletedBy = fromNullStr(completedBy)
		item.CompletedAt = fromNullStr(completedAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresEvents) Upsert(ctx context.Context, e models.ScheduledEvent) error {
	return upsertEvent(ctx, r.db, e)
}

func upsertEvent(ctx context.Context, db dbx.DBTX, e models.ScheduledEvent) error {
	query := `
		INSERT INTO scheduled_events (id, title, scheduled_at, created_by, created_at,
			completed_by, completed_at, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			scheduled_at = EXCLUDED.scheduled_at,
			completed_by = EXCLUDED.completed_by,
			completed_at = EXCLUDED.completed_at,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Title, e.ScheduledAt, nullStr(e.CreatedBy), e.CreatedAt,
		nullStr(e.CompletedBy), nullStr(e.CompletedAt), e.Status, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert scheduled event: %w", err)
	}
	return nil
}

func (r *PostgresEvents) UpsertAll(ctx context.Context, es []models.ScheduledEvent) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range es {
			if err := upsertEvent(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresEvents) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled event: %w", err)
	}
	return nil
}

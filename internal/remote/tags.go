package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresTags implements TagRepository over a dbx.DBTX.
type PostgresTags struct {
	db dbx.DBTX
}

func NewPostgresTags(db dbx.DBTX) *PostgresTags {
	return &PostgresTags{db: db}
}

func (r *PostgresTags) FetchAll(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var item models.Tag
		var color sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &color, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Color = fromNullStr(color)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresTags) Upsert(ctx context.Context, t models.Tag) error {
	return upsertTag(ctx, r.db, t)
}

func upsertTag(ctx context.Context, db dbx.DBTX, t models.Tag) error {
	query := `
		INSERT INTO tags (id, name, color, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, color = EXCLUDED.color
	`
	_, err := db.ExecContext(ctx, query, t.ID, t.Name, nullStr(t.Color), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tag: %w", err)
	}
	return nil
}

func (r *PostgresTags) UpsertAll(ctx context.Context, ts []models.Tag) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range ts {
			if err := upsertTag(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresTags) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

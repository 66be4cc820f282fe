package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresTab implements TabRepository over a dbx.DBTX. The table holds at
// most one row; FetchAll keeps the slice shape the reconciler works with.
type PostgresTab struct {
	db dbx.DBTX
}

func NewPostgresTab(db dbx.DBTX) *PostgresTab {
	return &PostgresTab{db: db}
}

func (r *PostgresTab) FetchAll(ctx context.Context) ([]models.RunningTab, error) {
	query := `SELECT id, initial_balance, current_balance, initialized_by, initialized_at, updated_at FROM running_tab`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select running tab: %w", err)
	}
	defer rows.Close()

	var result []models.RunningTab
	for rows.Next() {
		var item models.RunningTab
		var by sql.NullString
		if err := rows.Scan(&item.ID, &item.InitialBalance, &item.CurrentBalance,
			&by, &item.InitializedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.InitializedBy = fromNullStr(by)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresTab) Upsert(ctx context.Context, t models.RunningTab) error {
	return upsertTab(ctx, r.db, t)
}

func upsertTab(ctx context.Context, db dbx.DBTX, t models.RunningTab) error {
	query := `
		INSERT INTO running_tab (id, initial_balance, current_balance, initialized_by, initialized_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			initial_balance = EXCLUDED.initial_balance,
			current_balance = EXCLUDED.current_balance,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		t.ID, t.InitialBalance, t.CurrentBalance, nullStr(t.InitializedBy), t.InitializedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert running tab: %w", err)
	}
	return nil
}

func (r *PostgresTab) UpsertAll(ctx context.Context, ts []models.RunningTab) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range ts {
			if err := upsertTab(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

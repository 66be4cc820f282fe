package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresHistory implements HistoryRepository over a dbx.DBTX. Rows are
// returned newest-first, the order the ledger keeps locally.
type PostgresHistory struct {
	db dbx.DBTX
}

func NewPostgresHistory(db dbx.DBTX) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (r *PostgresHistory) FetchAll(ctx context.Context) ([]models.TabHistoryEntry, error) {
	query := `
		SELECT id, type, amount, description, related_expense_id, created_by, created_at
		FROM tab_history
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select tab history: %w", err)
	}
	defer rows.Close()

	var result []models.TabHistoryEntry
	for rows.Next() {
		var item models.TabHistoryEntry
		var relatedID, createdBy sql.NullString
		if err := rows.Scan(&item.ID, &item.Type, &item.Amount, &item.Description,
			&relatedID, &createdBy, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.RelatedExpenseID = fromNullStr(relatedID)
		item.CreatedBy = fromNullStr(createdBy)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert writes an entry; on id conflict nothing changes, entries are
// immutable after creation.
func (r *PostgresHistory) Upsert(ctx context.Context, e models.TabHistoryEntry) error {
	return upsertHistoryEntry(ctx, r.db, e)
}

func upsertHistoryEntry(ctx context.Context, db dbx.DBTX, e models.TabHistoryEntry) error {
	query := `
		INSERT INTO tab_history (id, type, amount, description, related_expense_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Type, e.Amount, e.Description, nullStr(e.RelatedExpenseID), nullStr(e.CreatedBy), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert history entry: %w", err)
	}
	return nil
}

func (r *PostgresHistory) UpsertAll(ctx context.Context, es []models.TabHistoryEntry) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range es {
			if err := upsertHistoryEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

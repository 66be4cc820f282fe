package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresExpenses implements ExpenseRepository over a dbx.DBTX.
type PostgresExpenses struct {
	db dbx.DBTX
}

func NewPostgresExpenses(db dbx.DBTX) *PostgresExpenses {
	return &PostgresExpenses{db: db}
}

func (r *PostgresExpenses) FetchAll(ctx context.Context) ([]models.Expense, error) {
	query := `
		SELECT id, name, amount, kind, created_by, created_at, approved_by, approved_at,
			status, attachment_url, rejection_reason, updated_at
		FROM expenses
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select expenses: %w", err)
	}
	defer rows.Close()

	var result []models.Expense
	for rows.Next() {
		var item models.Expense
		var kind, createdBy, approvedBy, approvedAt, attachmentURL, reason sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Amount, &kind, &createdBy, &item.CreatedAt,
			&approvedBy, &approvedAt, &item.Status, &attachmentURL, &reason, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Kind = models.ExpenseKind(fromNullStr(kind))
		item.CreatedBy = fromNullStr(createdBy)
		item.ApprovedBy = fromNullStr(approvedBy)
		item.ApprovedAt = fromNullStr(approvedAt)
		item.AttachmentURL = fromNullStr(attachmentURL)
		item.RejectionReason = fromNullStr(reason)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresExpenses) Upsert(ctx context.Context, e models.Expense) error {
	return upsertExpense(ctx, r.db, e)
}

func upsertExpense(ctx context.Context, db dbx.DBTX, e models.Expense) error {
	query := `
		INSERT INTO expenses (id, name, amount, kind, created_by, created_at, approved_by,
			approved_at, status, attachment_url, rejection_reason, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			amount = EXCLUDED.amount,
			kind = EXCLUDED.kind,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			status = EXCLUDED.status,
			attachment_url = EXCLUDED.attachment_url,
			rejection_reason = EXCLUDED.rejection_reason,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Name, e.Amount, nullStr(string(e.Kind)), nullStr(e.CreatedBy), e.CreatedAt,
		nullStr(e.ApprovedBy), nullStr(e.ApprovedAt), e.Status, nullStr(e.AttachmentURL),
		nullStr(e.RejectionReason), e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert expense: %w", err)
	}
	return nil
}

func (r *PostgresExpenses) UpsertAll(ctx context.Context, es []models.Expense) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, e := range es {
			if err := upsertExpense(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresExpenses) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

package remote

import (
	"context"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresPermissions implements PermissionsRepository over a dbx.DBTX.
// Rows are keyed by owner id; the local store converts the fetched array
// into its per-owner map.
type PostgresPermissions struct {
	db dbx.DBTX
}

func NewPostgresPermissions(db dbx.DBTX) *PostgresPermissions {
	return &PostgresPermissions{db: db}
}

func (r *PostgresPermissions) FetchAll(ctx context.Context) ([]models.OwnerPermissions, error) {
	query := `SELECT owner_id, can_approve_expenses, can_manage_owners FROM app_permissions`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select permissions: %w", err)
	}
	defer rows.Close()

	var result []models.OwnerPermissions
	for rows.Next() {
		var item models.OwnerPermissions
		if err := rows.Scan(&item.OwnerID, &item.CanApproveExpenses, &item.CanManageOwners); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresPermissions) Upsert(ctx context.Context, p models.OwnerPermissions) error {
	return upsertPermissions(ctx, r.db, p)
}

func upsertPermissions(ctx context.Context, db dbx.DBTX, p models.OwnerPermissions) error {
	query := `
		INSERT INTO app_permissions (owner_id, can_approve_expenses, can_manage_owners)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id)
		DO UPDATE SET
			can_approve_expenses = EXCLUDED.can_approve_expenses,
			can_manage_owners = EXCLUDED.can_manage_owners
	`
	_, err := db.ExecContext(ctx, query, p.OwnerID, p.CanApproveExpenses, p.CanManageOwners)
	if err != nil {
		return fmt.Errorf("failed to upsert permissions: %w", err)
	}
	return nil
}

func (r *PostgresPermissions) UpsertAll(ctx context.Context, ps []models.OwnerPermissions) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, p := range ps {
			if err := upsertPermissions(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresPermissions) Delete(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_permissions WHERE owner_id = $1`, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete permissions: %w", err)
	}
	return nil
}

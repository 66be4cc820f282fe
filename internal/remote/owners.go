package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/hearth/internal/dbx"
	"github.com/avolkov/hearth/internal/models"
)

// PostgresOwners implements OwnerRepository over a dbx.DBTX.
type PostgresOwners struct {
	db dbx.DBTX
}

func NewPostgresOwners(db dbx.DBTX) *PostgresOwners {
	return &PostgresOwners{db: db}
}

func (r *PostgresOwners) FetchAll(ctx context.Context) ([]models.Owner, error) {
	query := `SELECT id, name, password_hash, is_master, created_at FROM owners ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select owners: %w", err)
	}
	defer rows.Close()

	var result []models.Owner
	for rows.Next() {
		var item models.Owner
		var hash sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &hash, &item.IsMaster, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.PasswordHash = fromNullStr(hash)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresOwners) Upsert(ctx context.Context, o models.Owner) error {
	return upsertOwner(ctx, r.db, o)
}

func upsertOwner(ctx context.Context, db dbx.DBTX, o models.Owner) error {
	query := `
		INSERT INTO owners (id, name, password_hash, is_master, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			is_master = EXCLUDED.is_master
	`
	_, err := db.ExecContext(ctx, query, o.ID, o.Name, nullStr(o.PasswordHash), o.IsMaster, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert owner: %w", err)
	}
	return nil
}

func (r *PostgresOwners) UpsertAll(ctx context.Context, os []models.Owner) error {
	return inTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, o := range os {
			if err := upsertOwner(ctx, tx, o); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresOwners) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	return nil
}

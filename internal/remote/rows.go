package remote

import (
	"context"
	"database/sql"

	"github.com/avolkov/hearth/internal/dbx"
)

// inTx runs fn inside a transaction when the handle is a root *sql.DB, so a
// bulk mirror lands whole or not at all. Handles that are already
// transactional run fn directly.
func inTx(ctx context.Context, db dbx.DBTX, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if root, ok := db.(*sql.DB); ok {
		return dbx.WithTx(ctx, root, nil, fn)
	}
	return fn(ctx, db)
}

// Optional text columns travel as NULL when empty so the hosted schema can
// keep its nullable columns.

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func fromNullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

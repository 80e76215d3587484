package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// isPostgres reports whether db talks to PostgreSQL, which needs
// RETURNING instead of LastInsertId.
func isPostgres(db *sqlx.DB) bool {
	return sqlx.BindType(db.DriverName()) == sqlx.DOLLAR
}

// insertID runs an INSERT written with ? placeholders and returns the new
// primary key. The query must not end in a semicolon.
func insertID(ctx context.Context, db *sqlx.DB, query string, args ...any) (uint64, error) {
	if isPostgres(db) {
		var id uint64
		if err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return uint64(id), nil
}

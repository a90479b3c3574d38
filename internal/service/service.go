// Package service holds the use-case layer. Services validate input,
// enforce ownership and role rules, and translate repository failures
// into the typed error taxonomy handlers map to HTTP statuses.
package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"arcapi/internal/apperr"
)

// mapErr normalizes a repository failure: missing rows become NotFound,
// already-typed errors pass through, anything else is a storage error.
func mapErr(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	if apperr.KindOf(err) != 0 {
		return err
	}
	return apperr.Storage(err)
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

package database

import (
	"database/sql"
	"errors"
	"fmt"

	"fleet-backend/internal/apperrors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation = "23505"
	codeForeignKey      = "23503"
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// IsUndefinedRelation reports whether err is Postgres complaining that a
// table or column does not exist.
func IsUndefinedRelation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeUndefinedTable || pqErr.Code == codeUndefinedColumn
}

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

// translate maps driver errors onto the application's error kinds. conflictMsg
// is the client-facing text for a unique violation.
func translate(err error, what, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NotFound(what + " not found")
	case IsUniqueViolation(err):
		return apperrors.Conflict(conflictMsg)
	case isForeignKeyViolation(err):
		return apperrors.Invalid(what + " references a record that does not exist")
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeForeignKey
}

// Package apperrors holds the error taxonomy shared by repositories, services and handlers.
package apperrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a referenced user, post or author does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness violation, e.g. a duplicate username.
	ErrConflict = errors.New("conflict")
	// ErrValidation is returned when a required field is missing or a value does not fit its column.
	ErrValidation = errors.New("validation failed")
	// ErrSchema is returned when creating or dropping the schema fails.
	ErrSchema = errors.New("schema error")
	// ErrUnauthorized is returned when a mutation is attempted without an authenticated user.
	ErrUnauthorized = errors.New("you must be logged in to perform this action")
	// ErrInvalidCredentials is returned when a login does not match a stored user.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Postgres SQLSTATE codes mapped by FromPG.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeStringTooLong       = "22001"
)

// FromPG translates a constraint violation or an oversized value reported by
// Postgres into the matching sentinel. Any other error is returned as is.
func FromPG(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return errors.Join(ErrConflict, err)
	case codeForeignKeyViolation:
		return errors.Join(ErrNotFound, err)
	case codeNotNullViolation, codeStringTooLong:
		return errors.Join(ErrValidation, err)
	}
	return err
}

package database

import (
	"context"
	"errors"

	"library-catalog/internal/shared/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories branch on.
const (
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeQueryCanceled       = "57014"
)

var (
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrTimeout             = errors.New("query timeout")
	ErrConnection          = errors.New("connection failed")
)

// DBError keeps the driver error behind a sentinel so callers can use
// errors.Is without importing pgconn.
type DBError struct {
	Sentinel   error
	Cause      error
	Constraint string
}

func (e *DBError) Error() string { return e.Sentinel.Error() + ": " + e.Cause.Error() }
func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error { return e.Cause }

// Classify maps a driver error to a DBError, or returns it unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == CodeForeignKeyViolation:
			return &DBError{Sentinel: ErrForeignKeyViolation, Cause: err, Constraint: pgErr.ConstraintName}
		case pgErr.Code == CodeUniqueViolation:
			return &DBError{Sentinel: ErrUniqueViolation, Cause: err, Constraint: pgErr.ConstraintName}
		case pgErr.Code == CodeQueryCanceled:
			return &DBError{Sentinel: ErrTimeout, Cause: err}
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return &DBError{Sentinel: ErrConnection, Cause: err}
		}
	}

	if pgconn.Timeout(err) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	return err
}

// MapError turns a driver error into the application taxonomy: no rows
// becomes notFound, everything else a StorageError tagged with op.
func MapError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}
	return apperr.Storage(op, Classify(err))
}

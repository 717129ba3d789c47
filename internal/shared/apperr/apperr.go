package apperr

import (
	"errors"
	"fmt"
)

// Error kinds shared by every domain. Domain sentinels wrap one of these so
// callers can branch on the kind with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrStorage            = errors.New("storage error")
)

// StorageError is an infrastructure fault the user cannot correct:
// connectivity loss, timeouts, unexpected constraint failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrStorage)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a StorageError. Errors that already carry a kind are
// returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrIntegrityViolation) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsIntegrity(err error) bool { return errors.Is(err, ErrIntegrityViolation) }
func IsStorage(err error) bool   { return errors.Is(err, ErrStorage) }

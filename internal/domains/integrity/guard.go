// Package integrity holds the Author -> Book referential rule applied at
// author delete time.
package integrity

import (
	"context"
	"fmt"

	"library-catalog/internal/shared/apperr"

	"github.com/google/uuid"
)

const ReasonHasBooks = "author still has dependent books"

var ErrAuthorHasBooks = fmt.Errorf("%s: %w", ReasonHasBooks, apperr.ErrIntegrityViolation)

// DependentCounter counts the books that reference an author. Stores pass a
// counter bound to the same transaction or lock as the pending delete.
type DependentCounter interface {
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type Decision struct {
	AuthorID   uuid.UUID
	Allowed    bool
	Reason     string
	Dependents int
}

// CanDelete decides whether the author may be removed. A counter failure is
// returned as an error, never as a denial.
func CanDelete(ctx context.Context, counter DependentCounter, authorID uuid.UUID) (Decision, error) {
	n, err := counter.CountByAuthor(ctx, authorID)
	if err != nil {
		return Decision{}, apperr.Storage("integrity.count_books", err)
	}

	d := Decision{AuthorID: authorID, Allowed: n == 0, Dependents: n}
	if !d.Allowed {
		d.Reason = ReasonHasBooks
	}
	return d, nil
}

// Enforce turns a denial into ErrAuthorHasBooks.
func Enforce(d Decision) error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("author %s has %d book(s): %w", d.AuthorID, d.Dependents, ErrAuthorHasBooks)
}

// Check runs inside a store's atomic delete, before the row is removed.
type Check func(ctx context.Context, counter DependentCounter, authorID uuid.UUID) error

// Guard is the Check used for every author delete.
func Guard(ctx context.Context, counter DependentCounter, authorID uuid.UUID) error {
	d, err := CanDelete(ctx, counter, authorID)
	if err != nil {
		return err
	}
	return Enforce(d)
}

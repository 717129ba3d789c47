package repository

import (
	"context"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/integrity"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
)

// Repository is the author store. Faults surface as apperr.StorageError and
// missing rows as model.ErrAuthorNotFound.
type Repository interface {
	// Create assigns the id and stores a.
	Create(ctx context.Context, a *model.Author) (*model.Author, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns the authors matching filter in storage-defined order.
	List(ctx context.Context, filter query.Filter) ([]model.Author, error)

	// Update replaces every mutable field of the author with a.ID.
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	// Delete removes the author. check runs with a book counter bound to the
	// same transaction or lock as the delete; a non-nil result aborts it.
	Delete(ctx context.Context, id uuid.UUID, check integrity.Check) error
}

// Searchable fields for List.
var Columns = query.Columns{
	model.FieldName:       "name",
	model.FieldFirstName:  "first_name",
	model.FieldFamilyName: "family_name",
}

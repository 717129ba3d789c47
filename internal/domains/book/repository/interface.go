package repository

import (
	"context"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
)

// Repository is the book store. Writes naming a missing author fail with
// model.ErrAuthorMissing.
type Repository interface {
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter query.Filter) ([]model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

var Columns = query.Columns{
	model.FieldTitle:   "title",
	model.FieldSummary: "summary",
	model.FieldISBN:    "isbn",
}

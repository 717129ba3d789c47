package service

import (
	"context"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared/query"

	"github.com/google/uuid"
)

// ServiceInterface - book use cases. Create and Update return validate.Errors
// for bad input, including a reference to an author that does not exist.
type ServiceInterface interface {
	List(ctx context.Context, titleTerm string) ([]model.Book, error)
	Create(ctx context.Context, raw map[string]string) (*model.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*BookDetail, error)
	Update(ctx context.Context, id uuid.UUID, raw map[string]string) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AuthorOptions lists every author for the book form's author picker.
	AuthorOptions(ctx context.Context) ([]authormodel.Author, error)
}

// BookDetail is a book with its author resolved. Author is nil only if the
// reference could not be resolved.
type BookDetail struct {
	Book   *model.Book
	Author *authormodel.Author
}

// AuthorReader is the slice of the author store the book service reads.
type AuthorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Author, error)
	List(ctx context.Context, filter query.Filter) ([]authormodel.Author, error)
}

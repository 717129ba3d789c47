package service

import (
	"context"

	authormodel "library-catalog/internal/domains/author/model"
	bookmodel "library-catalog/internal/domains/book/model"

	"github.com/google/uuid"
)

// ServiceInterface is the author use-case surface. Create and Update take the
// raw request fields and return validate.Errors when they do not pass the
// author schema.
type ServiceInterface interface {
	List(ctx context.Context, nameTerm string) ([]authormodel.Author, error)
	Create(ctx context.Context, raw map[string]string) (*authormodel.Author, error)
	Get(ctx context.Context, id uuid.UUID) (*AuthorDetail, error)
	Update(ctx context.Context, id uuid.UUID, raw map[string]string) (*authormodel.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthorDetail is an author with the books that reference it.
type AuthorDetail struct {
	Author *authormodel.Author
	Books  []bookmodel.Book
}

// BookLister is the slice of the book store the author service reads.
type BookLister interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]bookmodel.Book, error)
}

package service

import (
	"context"
	"errors"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"
	"library-catalog/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type bookService struct {
	repo    repository.Repository
	authors AuthorReader
}

func NewBookService(repo repository.Repository, authors AuthorReader) ServiceInterface {
	return &bookService{repo: repo, authors: authors}
}

func (s *bookService) List(ctx context.Context, titleTerm string) ([]model.Book, error) {
	books, err := s.repo.List(ctx, query.Build(model.FieldTitle, validate.EscapeString(titleTerm)))
	if err != nil {
		logStorage(err, "list books", uuid.Nil)
		return nil, err
	}
	return books, nil
}

func (s *bookService) Create(ctx context.Context, raw map[string]string) (*model.Book, error) {
	rec, err := model.Schema.Run(raw)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, model.FromRecord(rec))
	if err != nil {
		err = authorFieldError(err)
		logStorage(err, "create book", uuid.Nil)
		return nil, err
	}

	log.Info().Str("book_id", created.ID.String()).Str("author_id", created.AuthorID.String()).Msg("book created")
	return created, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*BookDetail, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logStorage(err, "get book", id)
		return nil, err
	}

	a, err := s.authors.GetByID(ctx, b.AuthorID)
	if err != nil && !apperr.IsNotFound(err) {
		logStorage(err, "resolve book author", id)
		return nil, err
	}

	return &BookDetail{Book: b, Author: a}, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, raw map[string]string) (*model.Book, error) {
	rec, err := model.Schema.Run(raw)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}

	b := model.FromRecord(rec)
	b.ID = id

	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		err = authorFieldError(err)
		logStorage(err, "update book", id)
		return nil, err
	}
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrBookNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logStorage(err, "delete book", id)
		return err
	}
	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

func (s *bookService) AuthorOptions(ctx context.Context) ([]authormodel.Author, error) {
	authors, err := s.authors.List(ctx, query.Build(authormodel.FieldFamilyName, ""))
	if err != nil {
		logStorage(err, "list author options", uuid.Nil)
		return nil, err
	}
	return authors, nil
}

// authorFieldError reports a dangling author reference against the author
// field, the same way a malformed one is reported.
func authorFieldError(err error) error {
	if errors.Is(err, model.ErrAuthorMissing) {
		return validate.Errors{{Field: model.FieldAuthor, Message: model.MsgAuthorMissing}}
	}
	return err
}

func logStorage(err error, action string, id uuid.UUID) {
	if !apperr.IsStorage(err) {
		return
	}
	ev := log.Error().Err(err)
	if id != uuid.Nil {
		ev = ev.Str("book_id", id.String())
	}
	ev.Msg(action + " failed")
}

package service

import (
	"context"
	"errors"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/author/repository"
	"library-catalog/internal/domains/integrity"
	"library-catalog/internal/shared/apperr"
	"library-catalog/internal/shared/query"
	"library-catalog/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type authorService struct {
	repo  repository.Repository
	books BookLister
}

func NewAuthorService(repo repository.Repository, books BookLister) ServiceInterface {
	return &authorService{repo: repo, books: books}
}

// List filters by a case-insensitive substring of the display name. An empty
// term lists every author. Names are stored escaped, so the term is too.
func (s *authorService) List(ctx context.Context, nameTerm string) ([]model.Author, error) {
	authors, err := s.repo.List(ctx, query.Build(model.FieldName, validate.EscapeString(nameTerm)))
	if err != nil {
		logStorage(err, "list authors", uuid.Nil)
		return nil, err
	}
	return authors, nil
}

func (s *authorService) Create(ctx context.Context, raw map[string]string) (*model.Author, error) {
	rec, err := model.Schema.Run(raw)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, model.FromRecord(rec))
	if err != nil {
		logStorage(err, "create author", uuid.Nil)
		return nil, err
	}

	log.Info().Str("author_id", created.ID.String()).Msg("author created")
	return created, nil
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*AuthorDetail, error) {
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logStorage(err, "get author", id)
		return nil, err
	}

	books, err := s.books.ListByAuthor(ctx, id)
	if err != nil {
		logStorage(err, "list author books", id)
		return nil, err
	}

	return &AuthorDetail{Author: a, Books: books}, nil
}

// Update validates first; an invalid request never reaches the store.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, raw map[string]string) (*model.Author, error) {
	rec, err := model.Schema.Run(raw)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}

	a := model.FromRecord(rec)
	a.ID = id

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		logStorage(err, "update author", id)
		return nil, err
	}
	return updated, nil
}

// Delete refuses while books still reference the author. The check runs
// inside the store's delete so it cannot race a concurrent book create.
func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrAuthorNotFound
	}

	err := s.repo.Delete(ctx, id, integrity.Guard)
	switch {
	case err == nil:
		log.Info().Str("author_id", id.String()).Msg("author deleted")
	case errors.Is(err, integrity.ErrAuthorHasBooks):
		log.Warn().Err(err).Str("author_id", id.String()).Msg("author delete denied")
	default:
		logStorage(err, "delete author", id)
	}
	return err
}

func logStorage(err error, action string, id uuid.UUID) {
	if !apperr.IsStorage(err) {
		return
	}
	ev := log.Error().Err(err)
	if id != uuid.Nil {
		ev = ev.Str("author_id", id.String())
	}
	ev.Msg(action + " failed")
}

package repository

import (
	"context"
	"time"

	"library-catalog/internal/domains/book/model"
	"library-catalog/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const bookCacheKeyPrefix = "book:"

type cachedRepository struct {
	Repository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedRepository puts a read-through cache in front of GetByID.
func NewCachedRepository(next Repository, c cache.Cache, ttl time.Duration) Repository {
	return &cachedRepository{Repository: next, cache: c, ttl: ttl}
}

func cacheKey(id uuid.UUID) string { return bookCacheKeyPrefix + id.String() }

func (r *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var b model.Book
	hit, err := r.cache.Get(ctx, cacheKey(id), &b)
	if err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("book cache read failed")
	}
	if hit {
		return &b, nil
	}

	found, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey(id), found, r.ttl); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("book cache write failed")
	}
	return found, nil
}

func (r *cachedRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	updated, err := r.Repository.Update(ctx, b)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, b.ID)
	return updated, nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("book cache invalidation failed")
	}
}

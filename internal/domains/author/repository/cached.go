package repository

import (
	"context"
	"time"

	"library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/integrity"
	"library-catalog/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const authorCacheKeyPrefix = "author:"

// cachedRepository is a read-through cache for GetByID. Writes go to the
// wrapped store first and then drop the cached entry. Cache faults are logged
// and never fail the call.
type cachedRepository struct {
	Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(next Repository, c cache.Cache, ttl time.Duration) Repository {
	return &cachedRepository{Repository: next, cache: c, ttl: ttl}
}

func cacheKey(id uuid.UUID) string { return authorCacheKeyPrefix + id.String() }

func (r *cachedRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var a model.Author
	hit, err := r.cache.Get(ctx, cacheKey(id), &a)
	if err != nil {
		log.Warn().Err(err).Str("author_id", id.String()).Msg("author cache read failed")
	}
	if hit {
		return &a, nil
	}

	found, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey(id), found, r.ttl); err != nil {
		log.Warn().Err(err).Str("author_id", id.String()).Msg("author cache write failed")
	}
	return found, nil
}

func (r *cachedRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	updated, err := r.Repository.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, a.ID)
	return updated, nil
}

func (r *cachedRepository) Delete(ctx context.Context, id uuid.UUID, check integrity.Check) error {
	if err := r.Repository.Delete(ctx, id, check); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Str("author_id", id.String()).Msg("author cache invalidation failed")
	}
}

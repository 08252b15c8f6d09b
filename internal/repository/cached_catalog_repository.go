package repository

import (
	"context"
	"time"

	"skillpath/internal/domain/catalog"

	"github.com/google/uuid"
)

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedCatalogRepository serves requirement sets from the cache. Sets are immutable once
// attached to a target, so entries are never invalidated, only expired.
type CachedCatalogRepository struct {
	CatalogRepository
	cache JSONCache
	ttl   time.Duration
}

func NewCachedCatalogRepository(inner CatalogRepository, cache JSONCache, ttl time.Duration) *CachedCatalogRepository {
	return &CachedCatalogRepository{CatalogRepository: inner, cache: cache, ttl: ttl}
}

func RequirementCacheKey(targetID uuid.UUID) string {
	return "requirements:" + targetID.String()
}

func (r *CachedCatalogRepository) FindRequirement(ctx context.Context, targetID uuid.UUID) (catalog.RequirementSet, error) {
	key := RequirementCacheKey(targetID)
	if r.cache != nil {
		var cached catalog.RequirementSet
		if ok, err := r.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	set, err := r.CatalogRepository.FindRequirement(ctx, targetID)
	if err != nil {
		return catalog.RequirementSet{}, err
	}
	if r.cache != nil {
		_ = r.cache.SetJSON(ctx, key, set, r.ttl)
	}
	return set, nil
}

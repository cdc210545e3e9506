package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/recommendation"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// RecommendationCacheRepository persists the singleton-per-key
// recommendation records so a cached pick survives restarts
type RecommendationCacheRepository struct {
	coll *store.Collection
}

// NewRecommendationCacheRepository creates a new recommendation cache repository
func NewRecommendationCacheRepository(s *store.Store) (outbound.RecommendationCacheRepository, error) {
	coll, err := s.Collection(store.CollectionRecommendationCache)
	if err != nil {
		return nil, err
	}
	return &RecommendationCacheRepository{coll: coll}, nil
}

// Put stores the cached recommendation under its key
func (r *RecommendationCacheRepository) Put(ctx context.Context, c recommendation.Cached) error {
	_, err := r.coll.Put(ctx, c.Key, c)
	return err
}

// Find fetches the cached recommendation; a miss is a nil result
func (r *RecommendationCacheRepository) Find(ctx context.Context, key string) (*recommendation.Cached, error) {
	raw, err := r.coll.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeOne[recommendation.Cached](raw)
}

// Invalidate drops the cached recommendation
func (r *RecommendationCacheRepository) Invalidate(ctx context.Context, key string) error {
	return r.coll.Delete(ctx, key)
}

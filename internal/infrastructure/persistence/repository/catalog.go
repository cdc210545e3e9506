package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// CatalogRepository implements the catalog port over the ingredients collection
type CatalogRepository struct {
	coll *store.Collection
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(s *store.Store) (outbound.CatalogRepository, error) {
	coll, err := s.Collection(store.CollectionIngredients)
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{coll: coll}, nil
}

// Put inserts or replaces a catalog entry
func (r *CatalogRepository) Put(ctx context.Context, ing catalog.Ingredient) (catalog.Ingredient, error) {
	if err := ing.Validate(); err != nil {
		return catalog.Ingredient{}, err
	}
	if _, err := r.coll.Put(ctx, ing.ID, ing); err != nil {
		return catalog.Ingredient{}, err
	}
	return ing, nil
}

// FindByID fetches a catalog entry; a miss is a nil result
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*catalog.Ingredient, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Ingredient](raw)
}

// FindByNormalizedName returns entries sharing a normalized name. Collisions
// are tolerated by the store and resolved by the matching engine.
func (r *CatalogRepository) FindByNormalizedName(ctx context.Context, normalized string) ([]catalog.Ingredient, error) {
	raws, err := r.coll.GetByIndex(ctx, "normalizedName", normalized)
	if err != nil {
		return nil, err
	}
	return decodeAll[catalog.Ingredient](raws)
}

// FindAll returns the full catalog in insertion order
func (r *CatalogRepository) FindAll(ctx context.Context) ([]catalog.Ingredient, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[catalog.Ingredient](raws)
}

// Delete removes a catalog entry
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every catalog entry
func (r *CatalogRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// Count returns the catalog size
func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.Count(ctx)
}

// BulkPut writes many entries best-effort and reports per-item failures
func (r *CatalogRepository) BulkPut(ctx context.Context, ings []catalog.Ingredient) (int, []error) {
	items := make([]store.BulkItem, len(ings))
	for i, ing := range ings {
		items[i] = store.BulkItem{ID: ing.ID, Doc: ing}
	}
	written, failures := r.coll.BulkPut(ctx, items)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

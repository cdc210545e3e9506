package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// RecipeRepository implements the recipe port over the recipes collection
type RecipeRepository struct {
	coll *store.Collection
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(s *store.Store) (outbound.RecipeRepository, error) {
	coll, err := s.Collection(store.CollectionRecipes)
	if err != nil {
		return nil, err
	}
	return &RecipeRepository{coll: coll}, nil
}

// Put inserts or replaces a recipe
func (r *RecipeRepository) Put(ctx context.Context, rec recipe.Recipe) (recipe.Recipe, error) {
	if err := rec.Validate(); err != nil {
		return recipe.Recipe{}, err
	}
	if _, err := r.coll.Put(ctx, rec.ID, rec); err != nil {
		return recipe.Recipe{}, err
	}
	return rec, nil
}

// FindByID fetches a recipe; a miss is a nil result
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[recipe.Recipe](raw)
}

// FindAll returns the full recipe set in insertion order
func (r *RecipeRepository) FindAll(ctx context.Context) ([]recipe.Recipe, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[recipe.Recipe](raws)
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every recipe
func (r *RecipeRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// Count returns the recipe count
func (r *RecipeRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.Count(ctx)
}

// BulkPut writes many recipes best-effort and reports per-item failures
func (r *RecipeRepository) BulkPut(ctx context.Context, recipes []recipe.Recipe) (int, []error) {
	items := make([]store.BulkItem, len(recipes))
	for i, rec := range recipes {
		items[i] = store.BulkItem{ID: rec.ID, Doc: rec}
	}
	written, failures := r.coll.BulkPut(ctx, items)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

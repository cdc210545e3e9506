package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// HistoryRepository implements the history port over the recipeHistory collection
type HistoryRepository struct {
	coll *store.Collection
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(s *store.Store) (outbound.HistoryRepository, error) {
	coll, err := s.Collection(store.CollectionRecipeHistory)
	if err != nil {
		return nil, err
	}
	return &HistoryRepository{coll: coll}, nil
}

// Put inserts or replaces a history entry
func (r *HistoryRepository) Put(ctx context.Context, e history.Entry) (history.Entry, error) {
	if e.ID == "" {
		return history.Entry{}, history.ErrMissingID
	}
	if _, err := r.coll.Put(ctx, e.ID, e); err != nil {
		return history.Entry{}, err
	}
	return e, nil
}

// FindByID fetches an entry; a miss is a nil result
func (r *HistoryRepository) FindByID(ctx context.Context, id string) (*history.Entry, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[history.Entry](raw)
}

// FindByRecipe returns all sessions for one recipe
func (r *HistoryRepository) FindByRecipe(ctx context.Context, recipeID string) ([]history.Entry, error) {
	raws, err := r.coll.GetByIndex(ctx, "recipeId", recipeID)
	if err != nil {
		return nil, err
	}
	return decodeAll[history.Entry](raws)
}

// FindAll returns every history entry
func (r *HistoryRepository) FindAll(ctx context.Context) ([]history.Entry, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[history.Entry](raws)
}

// Delete removes an entry
func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every entry
func (r *HistoryRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// BulkPut writes many entries best-effort and reports per-item failures
func (r *HistoryRepository) BulkPut(ctx context.Context, entries []history.Entry) (int, []error) {
	items := make([]store.BulkItem, len(entries))
	for i, e := range entries {
		items[i] = store.BulkItem{ID: e.ID, Doc: e}
	}
	written, failures := r.coll.BulkPut(ctx, items)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

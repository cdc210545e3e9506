package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// InventoryRepository implements the inventory port over the inventory collection
type InventoryRepository struct {
	coll *store.Collection
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(s *store.Store) (outbound.InventoryRepository, error) {
	coll, err := s.Collection(store.CollectionInventory)
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{coll: coll}, nil
}

// Put inserts or replaces an inventory item
func (r *InventoryRepository) Put(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	if err := item.Validate(); err != nil {
		return inventory.Item{}, err
	}
	if _, err := r.coll.Put(ctx, item.ID, item); err != nil {
		return inventory.Item{}, err
	}
	return item, nil
}

// FindByID fetches an item; a miss is a nil result
func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[inventory.Item](raw)
}

// FindByIngredient returns all batches of one ingredient
func (r *InventoryRepository) FindByIngredient(ctx context.Context, ingredientID string) ([]inventory.Item, error) {
	raws, err := r.coll.GetByIndex(ctx, "ingredientId", ingredientID)
	if err != nil {
		return nil, err
	}
	return decodeAll[inventory.Item](raws)
}

// FindByLocation returns all items stored in one location
func (r *InventoryRepository) FindByLocation(ctx context.Context, locationID string) ([]inventory.Item, error) {
	raws, err := r.coll.GetByIndex(ctx, "locationId", locationID)
	if err != nil {
		return nil, err
	}
	return decodeAll[inventory.Item](raws)
}

// FindAll returns the full inventory
func (r *InventoryRepository) FindAll(ctx context.Context) ([]inventory.Item, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[inventory.Item](raws)
}

// Delete removes an item
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every item
func (r *InventoryRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// BulkPut writes many items best-effort and reports per-item failures
func (r *InventoryRepository) BulkPut(ctx context.Context, items []inventory.Item) (int, []error) {
	bulk := make([]store.BulkItem, len(items))
	for i, item := range items {
		bulk[i] = store.BulkItem{ID: item.ID, Doc: item}
	}
	written, failures := r.coll.BulkPut(ctx, bulk)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

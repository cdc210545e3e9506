package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// LocationRepository implements the location port over the locations
// collection. Names are backed by the schema's only unique secondary index.
type LocationRepository struct {
	coll *store.Collection
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(s *store.Store) (outbound.LocationRepository, error) {
	coll, err := s.Collection(store.CollectionLocations)
	if err != nil {
		return nil, err
	}
	return &LocationRepository{coll: coll}, nil
}

// Put inserts or replaces a location. A duplicate name surfaces as a
// constraint violation from the unique index.
func (r *LocationRepository) Put(ctx context.Context, loc location.Location) (location.Location, error) {
	if err := loc.Validate(); err != nil {
		return location.Location{}, err
	}
	if _, err := r.coll.Put(ctx, loc.ID, loc); err != nil {
		return location.Location{}, err
	}
	return loc, nil
}

// FindByID fetches a location; a miss is a nil result
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*location.Location, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[location.Location](raw)
}

// FindByName fetches a location by its unique name
func (r *LocationRepository) FindByName(ctx context.Context, name string) (*location.Location, error) {
	raws, err := r.coll.GetByIndex(ctx, "name", name)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, nil
	}
	return decodeOne[location.Location](raws[0])
}

// FindAll returns every location
func (r *LocationRepository) FindAll(ctx context.Context) ([]location.Location, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[location.Location](raws)
}

// Delete removes a location. Default-location protection is enforced by the
// pantry service, not here.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

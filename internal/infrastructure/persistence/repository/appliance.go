package repository

import (
	"context"

	"github.com/alacena/v2/internal/domain/appliance"
	"github.com/alacena/v2/internal/infrastructure/persistence/store"
	"github.com/alacena/v2/internal/ports/outbound"
)

// ApplianceRepository implements the appliance catalog port
type ApplianceRepository struct {
	coll *store.Collection
}

// NewApplianceRepository creates a new appliance repository
func NewApplianceRepository(s *store.Store) (outbound.ApplianceRepository, error) {
	coll, err := s.Collection(store.CollectionAppliances)
	if err != nil {
		return nil, err
	}
	return &ApplianceRepository{coll: coll}, nil
}

// Put inserts or replaces an appliance
func (r *ApplianceRepository) Put(ctx context.Context, a appliance.Appliance) (appliance.Appliance, error) {
	if err := a.Validate(); err != nil {
		return appliance.Appliance{}, err
	}
	if _, err := r.coll.Put(ctx, a.ID, a); err != nil {
		return appliance.Appliance{}, err
	}
	return a, nil
}

// FindByID fetches an appliance; a miss is a nil result
func (r *ApplianceRepository) FindByID(ctx context.Context, id string) (*appliance.Appliance, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[appliance.Appliance](raw)
}

// FindAll returns every appliance in insertion order
func (r *ApplianceRepository) FindAll(ctx context.Context) ([]appliance.Appliance, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[appliance.Appliance](raws)
}

// Delete removes an appliance
func (r *ApplianceRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every appliance
func (r *ApplianceRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// BulkPut writes many appliances best-effort and reports per-item failures
func (r *ApplianceRepository) BulkPut(ctx context.Context, appliances []appliance.Appliance) (int, []error) {
	items := make([]store.BulkItem, len(appliances))
	for i, a := range appliances {
		items[i] = store.BulkItem{ID: a.ID, Doc: a}
	}
	written, failures := r.coll.BulkPut(ctx, items)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

// UserApplianceRepository implements the owned-appliance port
type UserApplianceRepository struct {
	coll *store.Collection
}

// NewUserApplianceRepository creates a new owned-appliance repository
func NewUserApplianceRepository(s *store.Store) (outbound.UserApplianceRepository, error) {
	coll, err := s.Collection(store.CollectionUserAppliances)
	if err != nil {
		return nil, err
	}
	return &UserApplianceRepository{coll: coll}, nil
}

// Put inserts or replaces an owned-appliance record
func (r *UserApplianceRepository) Put(ctx context.Context, ua appliance.UserAppliance) (appliance.UserAppliance, error) {
	if err := ua.Validate(); err != nil {
		return appliance.UserAppliance{}, err
	}
	if _, err := r.coll.Put(ctx, ua.ID, ua); err != nil {
		return appliance.UserAppliance{}, err
	}
	return ua, nil
}

// FindByID fetches an owned-appliance record; a miss is a nil result
func (r *UserApplianceRepository) FindByID(ctx context.Context, id string) (*appliance.UserAppliance, error) {
	raw, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeOne[appliance.UserAppliance](raw)
}

// FindByAppliance returns the records owning a given appliance type
func (r *UserApplianceRepository) FindByAppliance(ctx context.Context, applianceID string) ([]appliance.UserAppliance, error) {
	raws, err := r.coll.GetByIndex(ctx, "applianceId", applianceID)
	if err != nil {
		return nil, err
	}
	return decodeAll[appliance.UserAppliance](raws)
}

// FindAll returns every owned-appliance record
func (r *UserApplianceRepository) FindAll(ctx context.Context) ([]appliance.UserAppliance, error) {
	raws, err := r.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return decodeAll[appliance.UserAppliance](raws)
}

// Delete removes an owned-appliance record
func (r *UserApplianceRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

// Clear removes every owned-appliance record
func (r *UserApplianceRepository) Clear(ctx context.Context) error {
	return r.coll.Clear(ctx)
}

// BulkPut writes many owned-appliance records best-effort
func (r *UserApplianceRepository) BulkPut(ctx context.Context, owned []appliance.UserAppliance) (int, []error) {
	items := make([]store.BulkItem, len(owned))
	for i, ua := range owned {
		items[i] = store.BulkItem{ID: ua.ID, Doc: ua}
	}
	written, failures := r.coll.BulkPut(ctx, items)
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return written, errs
}

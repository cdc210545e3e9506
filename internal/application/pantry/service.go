// Package pantry manages the user's on-hand stock and storage locations.
package pantry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/ports/inbound"
	"github.com/alacena/v2/internal/ports/outbound"
	apperrors "github.com/alacena/v2/pkg/errors"
)

// Service implements the inbound pantry port
type Service struct {
	inventoryRepo outbound.InventoryRepository
	locationRepo  outbound.LocationRepository
	logger        *zap.Logger
}

// NewService creates a new pantry service
func NewService(
	inventoryRepo outbound.InventoryRepository,
	locationRepo outbound.LocationRepository,
	logger *zap.Logger,
) inbound.PantryService {
	return &Service{
		inventoryRepo: inventoryRepo,
		locationRepo:  locationRepo,
		logger:        logger,
	}
}

// AddStock logs a purchase or detection. With Fold set, an existing batch of
// the same ingredient in the same location and unit absorbs the quantity
// instead of creating a new record; the store itself never auto-merges.
func (s *Service) AddStock(ctx context.Context, cmd inbound.AddStockCommand) (*inventory.Item, error) {
	if cmd.IngredientID == "" {
		return nil, apperrors.NewValidationError("ingredient id is required")
	}
	if cmd.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive")
	}
	now := time.Now()
	locationID := cmd.LocationID
	if locationID == "" {
		locationID = location.DefaultPantryID
	}

	incoming := inventory.Item{
		ID:                uuid.New().String(),
		IngredientID:      cmd.IngredientID,
		Quantity:          cmd.Quantity,
		Unit:              cmd.Unit,
		LocationID:        locationID,
		ExpiresAt:         cmd.ExpiresAt,
		LowStockThreshold: cmd.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if cmd.Fold {
		batches, err := s.inventoryRepo.FindByIngredient(ctx, cmd.IngredientID)
		if err != nil {
			return nil, err
		}
		for _, batch := range batches {
			if batch.CanFoldInto(incoming) {
				batch.Fold(incoming, now)
				stored, err := s.inventoryRepo.Put(ctx, batch)
				if err != nil {
					return nil, err
				}
				s.logger.Debug("Folded stock into existing batch",
					zap.String("item_id", stored.ID),
					zap.Float64("quantity", stored.Quantity))
				return &stored, nil
			}
		}
	}

	stored, err := s.inventoryRepo.Put(ctx, incoming)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Consume reduces a batch by the given quantity. A batch consumed to zero is
// deleted from the store; the returned item reflects the final state.
func (s *Service) Consume(ctx context.Context, itemID string, quantity float64) (*inventory.Item, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive")
	}
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("inventory item %s does not exist", itemID))
	}

	item.Quantity -= quantity
	item.UpdatedAt = time.Now()
	if item.IsDepleted() {
		item.Quantity = 0
		if err := s.inventoryRepo.Delete(ctx, item.ID); err != nil {
			return nil, err
		}
		s.logger.Debug("Batch consumed to zero and removed", zap.String("item_id", item.ID))
		return item, nil
	}

	stored, err := s.inventoryRepo.Put(ctx, *item)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// RemoveItem deletes a batch outright. Removing an absent batch is a no-op.
func (s *Service) RemoveItem(ctx context.Context, itemID string) error {
	return s.inventoryRepo.Delete(ctx, itemID)
}

// ListInventory returns every batch on hand
func (s *Service) ListInventory(ctx context.Context) ([]inventory.Item, error) {
	return s.inventoryRepo.FindAll(ctx)
}

// LowStock returns batches at or below their configured threshold
func (s *Service) LowStock(ctx context.Context) ([]inventory.Item, error) {
	items, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]inventory.Item, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// Expiring returns batches expiring inside the window measured from now
func (s *Service) Expiring(ctx context.Context, window time.Duration) ([]inventory.Item, error) {
	items, err := s.inventoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expiring := make([]inventory.Item, 0)
	for _, item := range items {
		if item.ExpiresWithin(window, now) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// CreateLocation adds a user-defined storage location. Duplicate names
// surface the store's unique-index violation.
func (s *Service) CreateLocation(ctx context.Context, name, icon string) (*location.Location, error) {
	existing, err := s.locationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	loc := location.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Icon:      icon,
		SortOrder: len(existing),
	}
	if err := loc.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}
	stored, err := s.locationRepo.Put(ctx, loc)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateLocation edits a location. Identity and default status are fixed by
// the stored record; only the caller's name, icon and sort order apply.
func (s *Service) UpdateLocation(ctx context.Context, loc location.Location) (*location.Location, error) {
	current, err := s.locationRepo.FindByID(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NewPreconditionError(
			fmt.Sprintf("location %s does not exist", loc.ID))
	}

	current.Name = loc.Name
	current.Icon = loc.Icon
	current.SortOrder = loc.SortOrder
	if err := current.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}
	stored, err := s.locationRepo.Put(ctx, *current)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteLocation removes a user-defined location. The seeded defaults are
// protected; deleting one is a constraint violation, never a silent drop.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	current, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	if current.IsDefault {
		return apperrors.NewConstraintViolationError(
			fmt.Sprintf("default location %q cannot be deleted", current.Name)).
			WithCause(location.ErrDefaultDelete)
	}
	return s.locationRepo.Delete(ctx, id)
}

// ListLocations returns every storage location
func (s *Service) ListLocations(ctx context.Context) ([]location.Location, error) {
	return s.locationRepo.FindAll(ctx)
}

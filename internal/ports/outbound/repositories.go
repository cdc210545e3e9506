// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/alacena/v2/internal/domain/appliance"
	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/domain/recommendation"
)

// CatalogRepository defines the interface for the canonical ingredient catalog
type CatalogRepository interface {
	Put(ctx context.Context, ing catalog.Ingredient) (catalog.Ingredient, error)
	FindByID(ctx context.Context, id string) (*catalog.Ingredient, error)
	FindByNormalizedName(ctx context.Context, normalized string) ([]catalog.Ingredient, error)
	FindAll(ctx context.Context) ([]catalog.Ingredient, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	BulkPut(ctx context.Context, ings []catalog.Ingredient) (int, []error)
}

// InventoryRepository defines the interface for on-hand stock persistence
type InventoryRepository interface {
	Put(ctx context.Context, item inventory.Item) (inventory.Item, error)
	FindByID(ctx context.Context, id string) (*inventory.Item, error)
	FindByIngredient(ctx context.Context, ingredientID string) ([]inventory.Item, error)
	FindByLocation(ctx context.Context, locationID string) ([]inventory.Item, error)
	FindAll(ctx context.Context) ([]inventory.Item, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	BulkPut(ctx context.Context, items []inventory.Item) (int, []error)
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Put(ctx context.Context, r recipe.Recipe) (recipe.Recipe, error)
	FindByID(ctx context.Context, id string) (*recipe.Recipe, error)
	FindAll(ctx context.Context) ([]recipe.Recipe, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	BulkPut(ctx context.Context, recipes []recipe.Recipe) (int, []error)
}

// ApplianceRepository defines the interface for the appliance catalog
type ApplianceRepository interface {
	Put(ctx context.Context, a appliance.Appliance) (appliance.Appliance, error)
	FindByID(ctx context.Context, id string) (*appliance.Appliance, error)
	FindAll(ctx context.Context) ([]appliance.Appliance, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	BulkPut(ctx context.Context, appliances []appliance.Appliance) (int, []error)
}

// UserApplianceRepository defines the interface for the user's owned appliances
type UserApplianceRepository interface {
	Put(ctx context.Context, ua appliance.UserAppliance) (appliance.UserAppliance, error)
	FindByID(ctx context.Context, id string) (*appliance.UserAppliance, error)
	FindByAppliance(ctx context.Context, applianceID string) ([]appliance.UserAppliance, error)
	FindAll(ctx context.Context) ([]appliance.UserAppliance, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	BulkPut(ctx context.Context, owned []appliance.UserAppliance) (int, []error)
}

// LocationRepository defines the interface for storage location persistence.
// The location name is backed by a unique secondary index; Put surfaces a
// constraint violation on a duplicate name.
type LocationRepository interface {
	Put(ctx context.Context, loc location.Location) (location.Location, error)
	FindByID(ctx context.Context, id string) (*location.Location, error)
	FindByName(ctx context.Context, name string) (*location.Location, error)
	FindAll(ctx context.Context) ([]location.Location, error)
	Delete(ctx context.Context, id string) error
}

// HistoryRepository defines the interface for cooking session history
type HistoryRepository interface {
	Put(ctx context.Context, e history.Entry) (history.Entry, error)
	FindByID(ctx context.Context, id string) (*history.Entry, error)
	FindByRecipe(ctx context.Context, recipeID string) ([]history.Entry, error)
	FindAll(ctx context.Context) ([]history.Entry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	BulkPut(ctx context.Context, entries []history.Entry) (int, []error)
}

// RecommendationCacheRepository persists the singleton-per-key
// recommendation cache records
type RecommendationCacheRepository interface {
	Put(ctx context.Context, c recommendation.Cached) error
	Find(ctx context.Context, key string) (*recommendation.Cached, error)
	Invalidate(ctx context.Context, key string) error
}

// CacheRepository defines the interface for transient caching operations.
// Implementations exist for in-memory and Redis backends.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the UI layer, voice parser and camera recognizer call into
package inbound

import (
	"context"
	"time"

	"github.com/alacena/v2/internal/domain/catalog"
	"github.com/alacena/v2/internal/domain/history"
	"github.com/alacena/v2/internal/domain/inventory"
	"github.com/alacena/v2/internal/domain/location"
	"github.com/alacena/v2/internal/domain/recipe"
	"github.com/alacena/v2/internal/domain/recommendation"
)

// MatcherService resolves free-text ingredient references to canonical
// catalog identities and fuzzy-ranked matches
type MatcherService interface {
	// Normalize lowercases, strips diacritics and singularizes per token.
	// Pure and deterministic; Normalize(Normalize(x)) == Normalize(x).
	Normalize(text string) string

	// FindExisting returns the first catalog entry matching the name by
	// exact normalized name, synonym-group equivalence or synonym overlap.
	// A miss is a nil result, not an error.
	FindExisting(ctx context.Context, name string) (*catalog.Ingredient, error)

	// Similarity returns a similarity score in [0,1]
	Similarity(a, b string) float64

	// FuzzySearch scores every catalog entry against the term and returns
	// matches at or above the threshold, best first. Ties keep catalog order.
	FuzzySearch(ctx context.Context, term string, threshold float64) ([]FuzzyMatch, error)
}

// FuzzyMatch pairs a catalog entry with its similarity score
type FuzzyMatch struct {
	Ingredient catalog.Ingredient
	Score      float64
}

// ImportMode selects how imported records reconcile with existing ones
type ImportMode string

const (
	// ImportModeReplace clears the collection before writing
	ImportModeReplace ImportMode = "replace"
	// ImportModeMerge upserts by primary key
	ImportModeMerge ImportMode = "merge"
)

// ImportResult reports the outcome of an import call. Validation errors are
// per-record and do not abort the import.
type ImportResult struct {
	Success int      `json:"success"`
	Errors  []string `json:"errors"`
}

// SnapshotService produces and consumes serialized collection snapshots,
// tolerant of the historical envelope shapes
type SnapshotService interface {
	Export(ctx context.Context, domain string) ([]byte, error)
	Import(ctx context.Context, domain string, data []byte, mode ImportMode) (*ImportResult, error)
}

// SearchQuery carries the ingredient-driven recipe search input
type SearchQuery struct {
	Terms      []string
	MaxTime    int               // minutes, 0 means no limit
	Difficulty recipe.Difficulty // empty means any
}

// SearchResult is one scored recipe from ingredient-driven search
type SearchResult struct {
	Recipe          recipe.Recipe
	Score           float64
	MatchPercentage float64
	ExactMatches    int
}

// DailyRecommendation is the Mode A result with its factor breakdown
type DailyRecommendation struct {
	Recipe  recipe.Recipe
	Factors recommendation.Factors
	Cached  bool
}

// RecommendationService ranks recipes by predicted user interest
type RecommendationService interface {
	// Daily returns the general daily recommendation, serving a cached pick
	// while it is younger than the configured TTL
	Daily(ctx context.Context) (*DailyRecommendation, error)

	// Search ranks recipes against free-text ingredient terms with optional
	// hard filters. Recipes under the 50% match-percentage cutoff are dropped.
	Search(ctx context.Context, query SearchQuery) ([]SearchResult, error)

	// Invalidate discards the cached daily recommendation
	Invalidate(ctx context.Context) error
}

// AddStockCommand logs a purchase or detection into the inventory
type AddStockCommand struct {
	IngredientID      string
	Quantity          float64
	Unit              string
	LocationID        string
	ExpiresAt         *time.Time
	LowStockThreshold *float64
	// Fold merges into an existing same-ingredient/same-location batch
	// instead of creating a new record
	Fold bool
}

// PantryService manages the user's inventory and storage locations
type PantryService interface {
	AddStock(ctx context.Context, cmd AddStockCommand) (*inventory.Item, error)
	Consume(ctx context.Context, itemID string, quantity float64) (*inventory.Item, error)
	RemoveItem(ctx context.Context, itemID string) error
	ListInventory(ctx context.Context) ([]inventory.Item, error)
	LowStock(ctx context.Context) ([]inventory.Item, error)
	Expiring(ctx context.Context, window time.Duration) ([]inventory.Item, error)

	CreateLocation(ctx context.Context, name, icon string) (*location.Location, error)
	UpdateLocation(ctx context.Context, loc location.Location) (*location.Location, error)
	DeleteLocation(ctx context.Context, id string) error
	ListLocations(ctx context.Context) ([]location.Location, error)
}

// CompleteSessionCommand finalizes a cooking session
type CompleteSessionCommand struct {
	EntryID     string
	Rating      *int
	WouldRepeat *bool
	Notes       string
}

// CookingService manages cooking session history
type CookingService interface {
	StartSession(ctx context.Context, recipeID string) (*history.Entry, error)
	CompleteSession(ctx context.Context, cmd CompleteSessionCommand) (*history.Entry, error)
	History(ctx context.Context) ([]history.Entry, error)
}

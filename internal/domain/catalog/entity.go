// Package catalog contains the core domain logic for the shared ingredient
// catalog: the canonical reference list of ingredients with their synonyms,
// nutrition and storage hints.
package catalog

import (
	"strings"
	"time"
)

// Ingredient represents a canonical catalog entry. Records are immutable once
// imported except via explicit update; uniqueness is enforced on the
// identifier only. Normalized-name collisions are tolerated and resolved by
// the matching engine, not the store.
type Ingredient struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	NormalizedName string      `json:"normalizedName"`
	Synonyms       []string    `json:"synonyms,omitempty"`
	Category       Category    `json:"category"`
	Nutrition      Nutrition   `json:"nutrition"`
	DefaultUnit    string      `json:"defaultUnit"`
	AlternateUnits []string    `json:"alternateUnits,omitempty"`
	StorageLife    StorageLife `json:"storageLife"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Nutrition contains nutritional values per default unit
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`       // in grams
	Carbohydrates float64 `json:"carbohydrates"` // in grams
	Fat           float64 `json:"fat"`           // in grams
	Fiber         float64 `json:"fiber"`         // in grams
}

// StorageLife holds per-location shelf-life hints in days. Zero means no hint.
type StorageLife struct {
	PantryDays  int `json:"pantryDays,omitempty"`
	FridgeDays  int `json:"fridgeDays,omitempty"`
	FreezerDays int `json:"freezerDays,omitempty"`
}

// Category represents ingredient categories
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryMeat      Category = "meat"
	CategorySeafood   Category = "seafood"
	CategoryDairy     Category = "dairy"
	CategoryGrain     Category = "grain"
	CategoryLegume    Category = "legume"
	CategorySpice     Category = "spice"
	CategoryCondiment Category = "condiment"
	CategoryBeverage  Category = "beverage"
	CategoryOther     Category = "other"
)

// Validate validates the catalog entry
func (i Ingredient) Validate() error {
	if i.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// HasSynonym reports whether the entry lists the given synonym verbatim
func (i Ingredient) HasSynonym(s string) bool {
	for _, syn := range i.Synonyms {
		if syn == s {
			return true
		}
	}
	return false
}

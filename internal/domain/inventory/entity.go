// Package inventory contains the domain logic for the user's on-hand
// ingredient stock, independent of the catalog.
package inventory

import (
	"time"
)

// Item represents one batch of an ingredient on hand. The IngredientID is a
// non-owning reference into the catalog, resolved by lookup at read time;
// a dangling reference is tolerated by callers via fallback display text.
// Multiple items may reference the same ingredient (different locations or
// batches); the store never auto-merges them.
type Item struct {
	ID                string     `json:"id"`
	IngredientID      string     `json:"ingredientId"`
	Quantity          float64    `json:"quantity"`
	Unit              string     `json:"unit"`
	LocationID        string     `json:"locationId"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	LowStockThreshold *float64   `json:"lowStockThreshold,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Validate validates the inventory item
func (it Item) Validate() error {
	if it.ID == "" {
		return ErrMissingID
	}
	if it.IngredientID == "" {
		return ErrMissingIngredient
	}
	if it.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// IsDepleted reports whether the item has been consumed to zero
func (it Item) IsDepleted() bool {
	return it.Quantity <= 0
}

// IsLowStock reports whether the quantity has fallen to or below the
// configured threshold. Items without a threshold are never low stock.
func (it Item) IsLowStock() bool {
	return it.LowStockThreshold != nil && it.Quantity <= *it.LowStockThreshold
}

// ExpiresWithin reports whether the item expires inside the given window
// measured from now. Items without an expiration date never expire.
func (it Item) ExpiresWithin(window time.Duration, now time.Time) bool {
	if it.ExpiresAt == nil {
		return false
	}
	return !it.ExpiresAt.After(now.Add(window))
}

// CanFoldInto reports whether two items are the same ingredient in the same
// location and unit, and may therefore be merged into a single record.
func (it Item) CanFoldInto(other Item) bool {
	return it.IngredientID == other.IngredientID &&
		it.LocationID == other.LocationID &&
		it.Unit == other.Unit
}

// Fold merges other into the receiver by summing quantity. The earlier
// expiration date wins so the merged batch is never optimistic.
func (it *Item) Fold(other Item, now time.Time) {
	it.Quantity += other.Quantity
	if other.ExpiresAt != nil {
		if it.ExpiresAt == nil || other.ExpiresAt.Before(*it.ExpiresAt) {
			it.ExpiresAt = other.ExpiresAt
		}
	}
	it.UpdatedAt = now
}

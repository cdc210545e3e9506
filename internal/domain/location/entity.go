// Package location contains the domain logic for storage locations.
// Three canonical areas are seeded on first run and cannot be deleted;
// user-defined locations can be added, edited and removed.
package location

// Location represents a storage area for inventory items
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sortOrder"`
	IsDefault bool   `json:"isDefault"`
}

// Identifiers of the seeded default locations
const (
	DefaultFridgeID  = "loc-fridge"
	DefaultFreezerID = "loc-freezer"
	DefaultPantryID  = "loc-pantry"
)

// Defaults returns the canonical storage areas seeded on first run
func Defaults() []Location {
	return []Location{
		{ID: DefaultFridgeID, Name: "Refrigerador", Icon: "fridge", SortOrder: 0, IsDefault: true},
		{ID: DefaultFreezerID, Name: "Congelador", Icon: "freezer", SortOrder: 1, IsDefault: true},
		{ID: DefaultPantryID, Name: "Despensa", Icon: "pantry", SortOrder: 2, IsDefault: true},
	}
}

// Validate validates the location
func (l Location) Validate() error {
	if l.ID == "" {
		return ErrMissingID
	}
	if l.Name == "" {
		return ErrMissingName
	}
	return nil
}

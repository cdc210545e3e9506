package inventory

import "errors"

// Domain errors for inventory operations

var (
	ErrMissingID         = errors.New("inventory item requires an identifier")
	ErrMissingIngredient = errors.New("inventory item requires an ingredient reference")
	ErrNegativeQuantity  = errors.New("inventory quantity cannot be negative")
)

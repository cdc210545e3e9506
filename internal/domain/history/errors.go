package history

import "errors"

// Domain errors for history operations

var (
	ErrMissingID        = errors.New("history entry requires an identifier")
	ErrMissingRecipe    = errors.New("history entry requires a recipe reference")
	ErrAlreadyCompleted = errors.New("history entry is already completed")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
)

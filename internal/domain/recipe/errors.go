package recipe

import "errors"

// Domain errors for recipe records

var (
	ErrMissingID     = errors.New("recipe requires an identifier")
	ErrMissingName   = errors.New("recipe requires a name")
	ErrNoIngredients = errors.New("recipe must have at least one ingredient")
	ErrEmptyStep     = errors.New("recipe step requires instruction text")
)

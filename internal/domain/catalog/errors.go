package catalog

import "errors"

// Domain errors for catalog operations

var (
	ErrMissingID   = errors.New("catalog ingredient requires an identifier")
	ErrMissingName = errors.New("catalog ingredient requires a name")
)

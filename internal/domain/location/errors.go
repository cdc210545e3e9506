package location

import "errors"

// Domain errors for location operations

var (
	ErrMissingID     = errors.New("location requires an identifier")
	ErrMissingName   = errors.New("location requires a name")
	ErrDefaultDelete = errors.New("default locations cannot be deleted")
	ErrDuplicateName = errors.New("location name already in use")
)

package appliance

import "errors"

// Domain errors for appliance operations

var (
	ErrMissingID        = errors.New("appliance requires an identifier")
	ErrMissingName      = errors.New("appliance requires a name")
	ErrMissingAppliance = errors.New("user appliance requires an appliance reference")
)

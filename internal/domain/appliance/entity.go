// Package appliance models kitchen appliances and the user's owned set.
// Recipe steps reference appliance capabilities as free-form tags; the
// adaptation workflow that consumes them lives outside this core.
package appliance

import "strings"

// Appliance is a catalog entry for a kitchen appliance type
type Appliance struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Capabilities []string `json:"capabilities,omitempty"`
	Icon         string   `json:"icon,omitempty"`
}

// UserAppliance records that the user owns a particular appliance
type UserAppliance struct {
	ID          string `json:"id"`
	ApplianceID string `json:"applianceId"`
	Nickname    string `json:"nickname,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// HasCapability reports whether the appliance lists the given capability tag
func (a Appliance) HasCapability(tag string) bool {
	for _, c := range a.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Validate validates the appliance entry
func (a Appliance) Validate() error {
	if a.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Validate validates the owned-appliance record
func (u UserAppliance) Validate() error {
	if u.ID == "" {
		return ErrMissingID
	}
	if u.ApplianceID == "" {
		return ErrMissingAppliance
	}
	return nil
}

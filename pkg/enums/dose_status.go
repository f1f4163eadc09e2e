package enums

import "fmt"

// DoseStatus tracks the outcome of a single scheduled administration.
type DoseStatus string

const (
	DoseStatusScheduled DoseStatus = "scheduled"
	DoseStatusTaken     DoseStatus = "taken"
	DoseStatusMissed    DoseStatus = "missed"
	DoseStatusSkipped   DoseStatus = "skipped"
)

var validDoseStatuses = []DoseStatus{
	DoseStatusScheduled,
	DoseStatusTaken,
	DoseStatusMissed,
	DoseStatusSkipped,
}

// String implements fmt.Stringer.
func (d DoseStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DoseStatus.
func (d DoseStatus) IsValid() bool {
	for _, candidate := range validDoseStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDoseStatus converts raw input into a DoseStatus.
func ParseDoseStatus(value string) (DoseStatus, error) {
	for _, candidate := range validDoseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dose status %q", value)
}

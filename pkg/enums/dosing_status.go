package enums

import "fmt"

// DosingStatus is the coarse course lifecycle derived purely from dose
// completion counts, independent of inventory allocation.
type DosingStatus string

const (
	DosingStatusPending    DosingStatus = "pending"
	DosingStatusInProgress DosingStatus = "in_progress"
	DosingStatusCompleted  DosingStatus = "completed"
)

var validDosingStatuses = []DosingStatus{
	DosingStatusPending,
	DosingStatusInProgress,
	DosingStatusCompleted,
}

// String implements fmt.Stringer.
func (d DosingStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DosingStatus.
func (d DosingStatus) IsValid() bool {
	for _, candidate := range validDosingStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDosingStatus converts raw input into a DosingStatus.
func ParseDosingStatus(value string) (DosingStatus, error) {
	for _, candidate := range validDosingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dosing status %q", value)
}

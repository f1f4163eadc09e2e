package enums

import "fmt"

// AllocationStatus tracks where a course's prescribed units sit relative to
// the hospital ledger: nothing held, held in reserve, or partially delivered.
type AllocationStatus string

const (
	AllocationStatusCreated   AllocationStatus = "created"
	AllocationStatusReserved  AllocationStatus = "reserved"
	AllocationStatusDelivered AllocationStatus = "delivered"
)

var validAllocationStatuses = []AllocationStatus{
	AllocationStatusCreated,
	AllocationStatusReserved,
	AllocationStatusDelivered,
}

// String implements fmt.Stringer.
func (a AllocationStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AllocationStatus.
func (a AllocationStatus) IsValid() bool {
	for _, candidate := range validAllocationStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAllocationStatus converts raw input into an AllocationStatus.
func ParseAllocationStatus(value string) (AllocationStatus, error) {
	for _, candidate := range validAllocationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid allocation status %q", value)
}

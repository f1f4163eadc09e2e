package enums

import "fmt"

// AllocationEventType names the four counter movements recorded in the
// append-only allocation ledger.
type AllocationEventType string

const (
	AllocationEventReserve   AllocationEventType = "reserve"
	AllocationEventDeliver   AllocationEventType = "deliver"
	AllocationEventUnreserve AllocationEventType = "unreserve"
	AllocationEventUndeliver AllocationEventType = "undeliver"
)

var validAllocationEventTypes = []AllocationEventType{
	AllocationEventReserve,
	AllocationEventDeliver,
	AllocationEventUnreserve,
	AllocationEventUndeliver,
}

// String implements fmt.Stringer.
func (a AllocationEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AllocationEventType.
func (a AllocationEventType) IsValid() bool {
	for _, candidate := range validAllocationEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAllocationEventType converts raw input into an AllocationEventType.
func ParseAllocationEventType(value string) (AllocationEventType, error) {
	for _, candidate := range validAllocationEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid allocation event type %q", value)
}

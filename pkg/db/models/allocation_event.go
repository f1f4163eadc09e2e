package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// AllocationEvent records one immutable inventory movement between a course
// and its inventory item. Replaying a course's events reproduces its
// reserved/delivered counters; summing per item reproduces the ledger's.
type AllocationEvent struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	CourseID        uuid.UUID                 `gorm:"column:course_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID                 `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	HospitalID      uuid.UUID                 `gorm:"column:hospital_id;type:uuid;not null"`
	Type            enums.AllocationEventType `gorm:"column:type;type:text;not null"`
	Quantity        int                       `gorm:"column:quantity;not null"`
	RecordedBy      *uuid.UUID                `gorm:"column:recorded_by;type:uuid"`
	Metadata        json.RawMessage           `gorm:"column:metadata;type:jsonb"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

// ReservedDelta is the event's signed contribution to the reserved counters.
func (e AllocationEvent) ReservedDelta() int {
	switch e.Type {
	case enums.AllocationEventReserve, enums.AllocationEventUndeliver:
		return e.Quantity
	case enums.AllocationEventUnreserve, enums.AllocationEventDeliver:
		return -e.Quantity
	}
	return 0
}

// DeliveredDelta is the event's signed contribution to the delivered counters.
func (e AllocationEvent) DeliveredDelta() int {
	switch e.Type {
	case enums.AllocationEventDeliver:
		return e.Quantity
	case enums.AllocationEventUndeliver:
		return -e.Quantity
	}
	return 0
}

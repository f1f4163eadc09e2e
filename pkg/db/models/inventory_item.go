package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// InventoryItem is the authoritative stock record for one treatment type at
// one hospital. quantity only changes through external restocking; the
// reserved/delivered counters move exclusively through course transitions.
type InventoryItem struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	HospitalID   uuid.UUID               `gorm:"column:hospital_id;type:uuid;not null;index"`
	Name         string                  `gorm:"column:name;not null"`
	Category     enums.TreatmentCategory `gorm:"column:category;type:text;not null;default:'medication'"`
	Quantity     int                     `gorm:"column:quantity;not null;default:0"`
	ReservedQty  int                     `gorm:"column:reserved_qty;not null;default:0"`
	DeliveredQty int                     `gorm:"column:delivered_qty;not null;default:0"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// Available is the stock not yet earmarked or consumed by any course.
func (i InventoryItem) Available() int {
	return i.Quantity - i.ReservedQty - i.DeliveredQty
}

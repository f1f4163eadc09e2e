package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
)

// ItemDTO represents the inventory item payload returned to clients.
type ItemDTO struct {
	ID           uuid.UUID `json:"id"`
	HospitalID   uuid.UUID `json:"hospital_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	ReservedQty  int       `json:"reserved_qty"`
	DeliveredQty int       `json:"delivered_qty"`
	Available    int       `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toItemDTO(item *models.InventoryItem) *ItemDTO {
	return &ItemDTO{
		ID:           item.ID,
		HospitalID:   item.HospitalID,
		Name:         item.Name,
		Category:     item.Category.String(),
		Quantity:     item.Quantity,
		ReservedQty:  item.ReservedQty,
		DeliveredQty: item.DeliveredQty,
		Available:    item.Available(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ItemReport compares one item's materialized counters against the two
// derived views: the sum over its courses and the replayed event ledger.
type ItemReport struct {
	ItemID            uuid.UUID `json:"item_id"`
	Name              string    `json:"name"`
	Reserved          int       `json:"reserved"`
	Delivered         int       `json:"delivered"`
	CoursesReserved   int       `json:"courses_reserved"`
	CoursesDelivered  int       `json:"courses_delivered"`
	ReplayedReserved  int       `json:"replayed_reserved"`
	ReplayedDelivered int       `json:"replayed_delivered"`
	Consistent        bool      `json:"consistent"`
}

// ReconciliationReport aggregates per-item consistency checks for a hospital.
type ReconciliationReport struct {
	HospitalID uuid.UUID    `json:"hospital_id"`
	Items      []ItemReport `json:"items"`
	Consistent bool         `json:"consistent"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// TreatmentCourse is one doctor's prescription of TotalQuantity units from a
// single inventory item to a patient, split into scheduled doses.
//
// ReservedQty and DeliveredQty mirror the share of the item's counters held
// by this course; the allocation_events ledger is the source of truth and the
// columns are its materialized sums. AvailableInStock is a snapshot taken at
// creation and never recomputed.
type TreatmentCourse struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	PatientID        uuid.UUID              `gorm:"column:patient_id;type:uuid;not null;index"`
	DoctorID         uuid.UUID              `gorm:"column:doctor_id;type:uuid;not null"`
	HospitalID       uuid.UUID              `gorm:"column:hospital_id;type:uuid;not null;index"`
	InventoryItemID  uuid.UUID              `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	Name             string                 `gorm:"column:name;not null"`
	Description      *string                `gorm:"column:description"`
	Instructions     *string                `gorm:"column:instructions"`
	TotalQuantity    int                    `gorm:"column:total_quantity;not null"`
	ReservedQty      int                    `gorm:"column:reserved_qty;not null;default:0"`
	DeliveredQty     int                    `gorm:"column:delivered_qty;not null;default:0"`
	RemainingQty     int                    `gorm:"column:remaining_qty;not null"`
	AvailableInStock int                    `gorm:"column:available_in_stock;not null"`
	AllocationStatus enums.AllocationStatus `gorm:"column:allocation_status;type:text;not null;default:'created'"`
	DosingStatus     enums.DosingStatus     `gorm:"column:dosing_status;type:text;not null;default:'pending'"`
	IsReserved       bool                   `gorm:"column:is_reserved;not null;default:false"`
	IsDelivered      bool                   `gorm:"column:is_delivered;not null;default:false"`
	StartDate        time.Time              `gorm:"column:start_date;not null"`
	EndDate          *time.Time             `gorm:"column:end_date"`
	Doses            []TreatmentDose        `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// TreatmentDose is one scheduled administration within a course. Doses never
// touch inventory counters; marking one taken only feeds the course's dosing
// status recomputation.
type TreatmentDose struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CourseID      uuid.UUID        `gorm:"column:course_id;type:uuid;not null;uniqueIndex:idx_course_dose_number"`
	DoseNumber    int              `gorm:"column:dose_number;not null;uniqueIndex:idx_course_dose_number"`
	ScheduledDate time.Time        `gorm:"column:scheduled_date;not null"`
	ScheduledTime string           `gorm:"column:scheduled_time;not null;default:''"`
	Quantity      int              `gorm:"column:quantity;not null;default:1"`
	Status        enums.DoseStatus `gorm:"column:status;type:text;not null;default:'scheduled'"`
	IsTaken       bool             `gorm:"column:is_taken;not null;default:false"`
	IsOnTime      bool             `gorm:"column:is_on_time;not null;default:false"`
	TakenAt       *time.Time       `gorm:"column:taken_at"`
	TakenDate     *time.Time       `gorm:"column:taken_date"`
	TakenBy       *uuid.UUID       `gorm:"column:taken_by;type:uuid"`
	SideEffects   *string          `gorm:"column:side_effects"`
	Notes         *string          `gorm:"column:notes"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

package courses

import (
	"time"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	"github.com/hospicare/hospicare-backend/pkg/pagination"
)

// CourseDTO represents the treatment course payload returned to clients.
type CourseDTO struct {
	ID               uuid.UUID  `json:"id"`
	PatientID        uuid.UUID  `json:"patient_id"`
	DoctorID         uuid.UUID  `json:"doctor_id"`
	HospitalID       uuid.UUID  `json:"hospital_id"`
	InventoryItemID  uuid.UUID  `json:"inventory_item_id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	Instructions     *string    `json:"instructions,omitempty"`
	TotalQuantity    int        `json:"total_quantity"`
	ReservedQty      int        `json:"reserved_qty"`
	DeliveredQty     int        `json:"delivered_qty"`
	RemainingQty     int        `json:"remaining_qty"`
	AvailableInStock int        `json:"available_in_stock"`
	AllocationStatus string     `json:"allocation_status"`
	DosingStatus     string     `json:"dosing_status"`
	IsReserved       bool       `json:"is_reserved"`
	IsDelivered      bool       `json:"is_delivered"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Doses            []DoseDTO  `json:"doses,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DoseDTO represents a single scheduled administration.
type DoseDTO struct {
	ID            uuid.UUID  `json:"id"`
	CourseID      uuid.UUID  `json:"course_id"`
	DoseNumber    int        `json:"dose_number"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	ScheduledTime string     `json:"scheduled_time,omitempty"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	IsTaken       bool       `json:"is_taken"`
	IsOnTime      bool       `json:"is_on_time"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	TakenDate     *time.Time `json:"taken_date,omitempty"`
	TakenBy       *uuid.UUID `json:"taken_by,omitempty"`
	SideEffects   *string    `json:"side_effects,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CourseListResult carries one page of courses plus the follow-up cursor.
type CourseListResult struct {
	Courses    []CourseDTO `json:"courses"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// CreateCourseInput holds the validated payload to prescribe a course.
type CreateCourseInput struct {
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	HospitalID      uuid.UUID
	InventoryItemID uuid.UUID
	Name            string
	Description     *string
	Instructions    *string
	TotalQuantity   int
	StartDate       time.Time
	EndDate         *time.Time
	SeedReserved    int
	SeedDelivered   int
	Doses           []CourseDoseInput
}

// CourseDoseInput describes one scheduled dose created with the course.
type CourseDoseInput struct {
	ScheduledDate time.Time
	ScheduledTime string
	Quantity      int
}

// TransitionInput identifies one allocation operation against a course.
type TransitionInput struct {
	Action     enums.AllocationEventType
	Quantity   int
	RecordedBy *uuid.UUID
}

// ListCoursesInput captures the filter and pagination knobs for listing.
type ListCoursesInput struct {
	HospitalID *uuid.UUID
	PatientID  *uuid.UUID
	Pagination pagination.Params
}

func toDoseDTO(dose *models.TreatmentDose) DoseDTO {
	return DoseDTO{
		ID:            dose.ID,
		CourseID:      dose.CourseID,
		DoseNumber:    dose.DoseNumber,
		ScheduledDate: dose.ScheduledDate,
		ScheduledTime: dose.ScheduledTime,
		Quantity:      dose.Quantity,
		Status:        dose.Status.String(),
		IsTaken:       dose.IsTaken,
		IsOnTime:      dose.IsOnTime,
		TakenAt:       dose.TakenAt,
		TakenDate:     dose.TakenDate,
		TakenBy:       dose.TakenBy,
		SideEffects:   dose.SideEffects,
		Notes:         dose.Notes,
		CreatedAt:     dose.CreatedAt,
		UpdatedAt:     dose.UpdatedAt,
	}
}

func toCourseDTO(course *models.TreatmentCourse) *CourseDTO {
	dto := &CourseDTO{
		ID:               course.ID,
		PatientID:        course.PatientID,
		DoctorID:         course.DoctorID,
		HospitalID:       course.HospitalID,
		InventoryItemID:  course.InventoryItemID,
		Name:             course.Name,
		Description:      course.Description,
		Instructions:     course.Instructions,
		TotalQuantity:    course.TotalQuantity,
		ReservedQty:      course.ReservedQty,
		DeliveredQty:     course.DeliveredQty,
		RemainingQty:     course.RemainingQty,
		AvailableInStock: course.AvailableInStock,
		AllocationStatus: course.AllocationStatus.String(),
		DosingStatus:     course.DosingStatus.String(),
		IsReserved:       course.IsReserved,
		IsDelivered:      course.IsDelivered,
		StartDate:        course.StartDate,
		EndDate:          course.EndDate,
		CreatedAt:        course.CreatedAt,
		UpdatedAt:        course.UpdatedAt,
	}
	for i := range course.Doses {
		dto.Doses = append(dto.Doses, toDoseDTO(&course.Doses[i]))
	}
	return dto
}

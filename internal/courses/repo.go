package courses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	"github.com/hospicare/hospicare-backend/pkg/pagination"
)

// Repository wires together treatment course persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the course together with any attached doses.
func (r *Repository) Create(ctx context.Context, course *models.TreatmentCourse) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// FindByID loads the course with its dose schedule.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TreatmentCourse, error) {
	var course models.TreatmentCourse
	if err := r.db.WithContext(ctx).
		Preload("Doses", func(db *gorm.DB) *gorm.DB {
			return db.Order("dose_number ASC")
		}).
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDForUpdate loads the course under a row lock, without associations.
// Callers must run inside a transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.TreatmentCourse, error) {
	var course models.TreatmentCourse
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

type listCoursesQuery struct {
	HospitalID *uuid.UUID
	PatientID  *uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

// List returns one page of courses, newest first, plus the next-page cursor.
func (r *Repository) List(ctx context.Context, params listCoursesQuery) ([]models.TreatmentCourse, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.TreatmentCourse{})
	if params.HospitalID != nil {
		query = query.Where("hospital_id = ?", *params.HospitalID)
	}
	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var courses []models.TreatmentCourse
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&courses).Error; err != nil {
		return nil, nil, err
	}

	if len(courses) > normalized {
		courses = courses[:normalized]
		// The cursor marks the last row returned; the strict (created_at, id)
		// predicate above then resumes at the first row after it.
		last := courses[normalized-1]
		return courses, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return courses, nil, nil
}

// UpdateAllocation persists the allocation counters and derived columns of a
// locked course.
func (r *Repository) UpdateAllocation(ctx context.Context, course *models.TreatmentCourse) error {
	return r.db.WithContext(ctx).
		Model(&models.TreatmentCourse{}).
		Where("id = ?", course.ID).
		Updates(map[string]any{
			"reserved_qty":      course.ReservedQty,
			"delivered_qty":     course.DeliveredQty,
			"remaining_qty":     course.RemainingQty,
			"allocation_status": course.AllocationStatus,
			"is_reserved":       course.IsReserved,
			"is_delivered":      course.IsDelivered,
		}).Error
}

// UpdateDosingStatus persists the dose-derived lifecycle status.
func (r *Repository) UpdateDosingStatus(ctx context.Context, courseID uuid.UUID, status enums.DosingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.TreatmentCourse{}).
		Where("id = ?", courseID).
		Update("dosing_status", status).Error
}

// Delete removes the course and its doses. Doses go first so the referential
// ordering holds even without cascading foreign keys.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&models.TreatmentDose{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.TreatmentCourse{}).Error
}

// SumCountersByItemID aggregates the reserved/delivered counters over every
// course drawing from one inventory item.
func (r *Repository) SumCountersByItemID(ctx context.Context, itemID uuid.UUID) (int, int, error) {
	var sums struct {
		Reserved  int
		Delivered int
	}
	if err := r.db.WithContext(ctx).
		Model(&models.TreatmentCourse{}).
		Select("COALESCE(SUM(reserved_qty), 0) AS reserved, COALESCE(SUM(delivered_qty), 0) AS delivered").
		Where("inventory_item_id = ?", itemID).
		Scan(&sums).Error; err != nil {
		return 0, 0, err
	}
	return sums.Reserved, sums.Delivered, nil
}

package doses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// Repository wires together treatment dose persistence helpers.
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

// FindByCourseAndNumber loads one dose by its position within the course.
func (r *Repository) FindByCourseAndNumber(ctx context.Context, courseID uuid.UUID, doseNumber int) (*models.TreatmentDose, error) {
	var dose models.TreatmentDose
	if err := r.db.WithContext(ctx).
		First(&dose, "course_id = ? AND dose_number = ?", courseID, doseNumber).Error; err != nil {
		return nil, err
	}
	return &dose, nil
}

// ListByCourseID returns the course's dose schedule in administration order.
func (r *Repository) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]models.TreatmentDose, error) {
	var doses []models.TreatmentDose
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("dose_number ASC").
		Find(&doses).Error; err != nil {
		return nil, err
	}
	return doses, nil
}

// UpdateOutcome persists the administration outcome of one dose.
func (r *Repository) UpdateOutcome(ctx context.Context, dose *models.TreatmentDose) error {
	return r.db.WithContext(ctx).
		Model(&models.TreatmentDose{}).
		Where("id = ?", dose.ID).
		Updates(map[string]any{
			"status":       dose.Status,
			"is_taken":     dose.IsTaken,
			"is_on_time":   dose.IsOnTime,
			"taken_at":     dose.TakenAt,
			"taken_date":   dose.TakenDate,
			"taken_by":     dose.TakenBy,
			"side_effects": dose.SideEffects,
			"notes":        dose.Notes,
		}).Error
}

// CountByCourseID returns the total number of doses and how many are taken.
func (r *Repository) CountByCourseID(ctx context.Context, courseID uuid.UUID) (total int64, taken int64, err error) {
	if err := r.db.WithContext(ctx).
		Model(&models.TreatmentDose{}).
		Where("course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.TreatmentDose{}).
		Where("course_id = ? AND status = ?", courseID, enums.DoseStatusTaken).
		Count(&taken).Error; err != nil {
		return 0, 0, err
	}
	return total, taken, nil
}

package allocations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
)

// Repository manages persistence for allocation events. Events are
// append-only; there is no update or delete path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.AllocationEvent) error
	ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]models.AllocationEvent, error)
	ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an allocation event repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.AllocationEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]models.AllocationEvent, error) {
	var events []models.AllocationEvent
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	var events []models.AllocationEvent
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

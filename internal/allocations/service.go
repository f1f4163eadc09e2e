package allocations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
)

// Service defines operations that record and replay allocation events.
type Service interface {
	RecordEvent(ctx context.Context, input RecordEventInput) (*models.AllocationEvent, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.AllocationEvent, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error)
	CourseTotals(ctx context.Context, courseID uuid.UUID) (Totals, error)
	ItemTotals(ctx context.Context, itemID uuid.UUID) (Totals, error)
}

// RecordEventInput captures the immutable data an allocation event requires.
type RecordEventInput struct {
	CourseID        uuid.UUID                 `json:"course_id"`
	InventoryItemID uuid.UUID                 `json:"inventory_item_id"`
	HospitalID      uuid.UUID                 `json:"hospital_id"`
	Type            enums.AllocationEventType `json:"type"`
	Quantity        int                       `json:"quantity"`
	RecordedBy      *uuid.UUID                `json:"recorded_by"`
	Metadata        json.RawMessage           `json:"metadata"`
}

// Totals holds the reserved/delivered counters obtained by replaying a
// sequence of allocation events from the beginning.
type Totals struct {
	Reserved  int `json:"reserved"`
	Delivered int `json:"delivered"`
}

type service struct {
	repo Repository
}

// NewService wires an allocation event service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("allocations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordEvent(ctx context.Context, input RecordEventInput) (*models.AllocationEvent, error) {
	if input.CourseID == uuid.Nil {
		return nil, fmt.Errorf("course id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return nil, fmt.Errorf("inventory item id is required")
	}
	if input.HospitalID == uuid.Nil {
		return nil, fmt.Errorf("hospital id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid allocation event type %q", input.Type)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", input.Quantity)
	}

	event := &models.AllocationEvent{
		CourseID:        input.CourseID,
		InventoryItemID: input.InventoryItemID,
		HospitalID:      input.HospitalID,
		Type:            input.Type,
		Quantity:        input.Quantity,
		RecordedBy:      input.RecordedBy,
		Metadata:        input.Metadata,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.AllocationEvent, error) {
	if courseID == uuid.Nil {
		return nil, fmt.Errorf("course id is required")
	}
	return s.repo.ListByCourseID(ctx, courseID)
}

func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	if itemID == uuid.Nil {
		return nil, fmt.Errorf("inventory item id is required")
	}
	return s.repo.ListByItemID(ctx, itemID)
}

func (s *service) CourseTotals(ctx context.Context, courseID uuid.UUID) (Totals, error) {
	events, err := s.ListByCourse(ctx, courseID)
	if err != nil {
		return Totals{}, err
	}
	return Replay(events), nil
}

func (s *service) ItemTotals(ctx context.Context, itemID uuid.UUID) (Totals, error) {
	events, err := s.ListByItem(ctx, itemID)
	if err != nil {
		return Totals{}, err
	}
	return Replay(events), nil
}

// Replay folds a sequence of allocation events into the reserved/delivered
// counters they produce. The empty sequence yields zero counters.
func Replay(events []models.AllocationEvent) Totals {
	var totals Totals
	for _, event := range events {
		totals.Reserved += event.ReservedDelta()
		totals.Delivered += event.DeliveredDelta()
	}
	return totals
}

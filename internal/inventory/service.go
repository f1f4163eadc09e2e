package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

// Service exposes inventory item management and consistency checks.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, hospitalID uuid.UUID) ([]ItemDTO, error)
	ListItemEvents(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error)
	Reconcile(ctx context.Context, hospitalID uuid.UUID) (*ReconciliationReport, error)
}

// CreateItemInput holds the validated payload to stock a new item.
type CreateItemInput struct {
	HospitalID uuid.UUID
	Name       string
	Category   enums.TreatmentCategory
	Quantity   int
}

type courseCounterSummer interface {
	SumCountersByItemID(ctx context.Context, itemID uuid.UUID) (reserved int, delivered int, err error)
}

type eventLister interface {
	ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error)
}

type service struct {
	repo       *Repository
	courseRepo courseCounterSummer
	eventRepo  eventLister
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, courseRepo courseCounterSummer, eventRepo eventLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if courseRepo == nil {
		return nil, fmt.Errorf("course repository required")
	}
	if eventRepo == nil {
		return nil, fmt.Errorf("allocation event repository required")
	}
	return &service{repo: repo, courseRepo: courseRepo, eventRepo: eventRepo}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if input.HospitalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospital id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	category := input.Category
	if category == "" {
		category = enums.TreatmentCategoryMedication
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid treatment category %q", input.Category))
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item := &models.InventoryItem{
		HospitalID: input.HospitalID,
		Name:       strings.TrimSpace(input.Name),
		Category:   category,
		Quantity:   input.Quantity,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory item")
	}
	return toItemDTO(created), nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory item")
	}
	return toItemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context, hospitalID uuid.UUID) ([]ItemDTO, error) {
	if hospitalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospital id is required")
	}

	items, err := s.repo.ListByHospitalID(ctx, hospitalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory items")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *toItemDTO(&items[i]))
	}
	return dtos, nil
}

func (s *service) ListItemEvents(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list allocation events")
	}
	return events, nil
}

// Reconcile sweeps every item of a hospital and cross-checks its counters
// against the sum over its courses and the replayed event ledger. All three
// views must agree; any divergence marks the report inconsistent but the
// sweep continues so a single bad item does not hide the rest.
func (s *service) Reconcile(ctx context.Context, hospitalID uuid.UUID) (*ReconciliationReport, error) {
	if hospitalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hospital id is required")
	}

	items, err := s.repo.ListByHospitalID(ctx, hospitalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory items")
	}

	report := &ReconciliationReport{HospitalID: hospitalID, Consistent: true}
	var sweepErr error

	for i := range items {
		item := &items[i]

		reserved, delivered, err := s.courseRepo.SumCountersByItemID(ctx, item.ID)
		if err != nil {
			sweepErr = multierr.Append(sweepErr, fmt.Errorf("sum courses for item %s: %w", item.ID, err))
			continue
		}

		events, err := s.eventRepo.ListByItemID(ctx, item.ID)
		if err != nil {
			sweepErr = multierr.Append(sweepErr, fmt.Errorf("list events for item %s: %w", item.ID, err))
			continue
		}
		replayed := allocations.Replay(events)

		entry := ItemReport{
			ItemID:            item.ID,
			Name:              item.Name,
			Reserved:          item.ReservedQty,
			Delivered:         item.DeliveredQty,
			CoursesReserved:   reserved,
			CoursesDelivered:  delivered,
			ReplayedReserved:  replayed.Reserved,
			ReplayedDelivered: replayed.Delivered,
		}
		entry.Consistent = entry.Reserved == entry.CoursesReserved &&
			entry.Reserved == entry.ReplayedReserved &&
			entry.Delivered == entry.CoursesDelivered &&
			entry.Delivered == entry.ReplayedDelivered
		if !entry.Consistent {
			report.Consistent = false
		}
		report.Items = append(report.Items, entry)
	}

	if sweepErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, sweepErr, "reconciliation sweep")
	}
	return report, nil
}

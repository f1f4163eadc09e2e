package courses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
	"github.com/hospicare/hospicare-backend/pkg/metrics"
	"github.com/hospicare/hospicare-backend/pkg/pagination"
)

// Service exposes course prescription and allocation operations.
type Service interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*CourseDTO, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDTO, error)
	ListCourses(ctx context.Context, input ListCoursesInput) (*CourseListResult, error)
	TransitionCourse(ctx context.Context, courseID uuid.UUID, input TransitionInput) (*CourseDTO, error)
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      *Repository
	itemRepo  *inventory.Repository
	eventRepo allocations.Repository
	dbClient  txRunner
	metrics   *metrics.AllocationMetrics
}

// NewService constructs a course service instance.
func NewService(repo *Repository, itemRepo *inventory.Repository, eventRepo allocations.Repository, dbClient txRunner, allocationMetrics *metrics.AllocationMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("course repository required")
	}
	if itemRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if eventRepo == nil {
		return nil, fmt.Errorf("allocation event repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		itemRepo:  itemRepo,
		eventRepo: eventRepo,
		dbClient:  dbClient,
		metrics:   allocationMetrics,
	}, nil
}

func (s *service) CreateCourse(ctx context.Context, input CreateCourseInput) (*CourseDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()
	var createdID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCourses := s.repo.WithTx(tx)
		txItems := s.itemRepo.WithTx(tx)
		txEvents := s.eventRepo.WithTx(tx)

		item, err := txItems.FindByIDForUpdate(ctx, input.InventoryItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock inventory item")
		}

		available := item.Available()
		if available < input.TotalQuantity {
			return pkgerrors.NewInsufficientInventory(available, input.TotalQuantity)
		}

		course := &models.TreatmentCourse{
			ID:               uuid.New(),
			PatientID:        input.PatientID,
			DoctorID:         input.DoctorID,
			HospitalID:       input.HospitalID,
			InventoryItemID:  input.InventoryItemID,
			Name:             strings.TrimSpace(input.Name),
			Description:      input.Description,
			Instructions:     input.Instructions,
			TotalQuantity:    input.TotalQuantity,
			ReservedQty:      input.SeedReserved,
			DeliveredQty:     input.SeedDelivered,
			RemainingQty:     input.TotalQuantity - input.SeedDelivered,
			AvailableInStock: available - input.TotalQuantity,
			AllocationStatus: seededStatus(input.SeedReserved, input.SeedDelivered),
			DosingStatus:     enums.DosingStatusPending,
			IsReserved:       input.SeedReserved > 0,
			IsDelivered:      input.SeedDelivered > 0,
			StartDate:        input.StartDate,
			EndDate:          input.EndDate,
		}
		for i, dose := range input.Doses {
			course.Doses = append(course.Doses, models.TreatmentDose{
				ID:            uuid.New(),
				CourseID:      course.ID,
				DoseNumber:    i + 1,
				ScheduledDate: dose.ScheduledDate,
				ScheduledTime: dose.ScheduledTime,
				Quantity:      dose.Quantity,
				Status:        enums.DoseStatusScheduled,
			})
		}

		if err := txCourses.Create(ctx, course); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert course")
		}
		createdID = course.ID

		seeded := input.SeedReserved + input.SeedDelivered
		if seeded == 0 {
			return nil
		}

		item.ReservedQty += input.SeedReserved
		item.DeliveredQty += input.SeedDelivered
		if err := txItems.UpdateCounters(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory counters")
		}

		// seeds enter through the reserved pool so the event ledger replays
		// to the same counters as the materialized columns
		if err := txEvents.Create(ctx, &models.AllocationEvent{
			CourseID:        course.ID,
			InventoryItemID: item.ID,
			HospitalID:      course.HospitalID,
			Type:            enums.AllocationEventReserve,
			Quantity:        seeded,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record reserve event")
		}
		if input.SeedDelivered > 0 {
			if err := txEvents.Create(ctx, &models.AllocationEvent{
				CourseID:        course.ID,
				InventoryItemID: item.ID,
				HospitalID:      course.HospitalID,
				Type:            enums.AllocationEventDeliver,
				Quantity:        input.SeedDelivered,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record deliver event")
			}
		}
		return nil
	})
	s.metrics.ObserveDuration("create", time.Since(start))
	if err != nil {
		s.metrics.IncFailure("create")
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create course")
	}
	s.metrics.IncSuccess("create")

	return s.GetCourse(ctx, createdID)
}

func (s *service) GetCourse(ctx context.Context, courseID uuid.UUID) (*CourseDTO, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id is required")
	}

	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load course")
	}
	return toCourseDTO(course), nil
}

func (s *service) ListCourses(ctx context.Context, input ListCoursesInput) (*CourseListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	courses, next, err := s.repo.List(ctx, listCoursesQuery{
		HospitalID: input.HospitalID,
		PatientID:  input.PatientID,
		Limit:      input.Pagination.Limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list courses")
	}

	result := &CourseListResult{Courses: make([]CourseDTO, 0, len(courses))}
	for i := range courses {
		result.Courses = append(result.Courses, *toCourseDTO(&courses[i]))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// TransitionCourse executes one allocation operation atomically over the
// course row and its inventory item row. Both rows are locked for the
// duration of the check and the write; a failed precondition leaves both
// untouched.
func (s *service) TransitionCourse(ctx context.Context, courseID uuid.UUID, input TransitionInput) (*CourseDTO, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id is required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transition action %q", input.Action))
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	op := input.Action.String()
	start := time.Now()
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCourses := s.repo.WithTx(tx)
		txItems := s.itemRepo.WithTx(tx)
		txEvents := s.eventRepo.WithTx(tx)

		course, err := txCourses.FindByIDForUpdate(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock course")
		}

		item, err := txItems.FindByIDForUpdate(ctx, course.InventoryItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock inventory item")
		}

		if err := applyTransition(course, item, input.Action, input.Quantity); err != nil {
			return err
		}

		if err := txCourses.UpdateAllocation(ctx, course); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update course counters")
		}
		if err := txItems.UpdateCounters(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory counters")
		}
		if err := txEvents.Create(ctx, &models.AllocationEvent{
			CourseID:        course.ID,
			InventoryItemID: item.ID,
			HospitalID:      course.HospitalID,
			Type:            input.Action,
			Quantity:        input.Quantity,
			RecordedBy:      input.RecordedBy,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record allocation event")
		}
		return nil
	})
	s.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(op)
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition course")
	}
	s.metrics.IncSuccess(op)

	return s.GetCourse(ctx, courseID)
}

// DeleteCourse releases any units the course still holds and removes the
// course with its doses. The release is recorded in the event ledger so the
// item's counters remain replayable after the course row is gone.
func (s *service) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	if courseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "course id is required")
	}

	start := time.Now()
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCourses := s.repo.WithTx(tx)
		txItems := s.itemRepo.WithTx(tx)
		txEvents := s.eventRepo.WithTx(tx)

		course, err := txCourses.FindByIDForUpdate(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock course")
		}

		if course.ReservedQty > 0 || course.DeliveredQty > 0 {
			item, err := txItems.FindByIDForUpdate(ctx, course.InventoryItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock inventory item")
			}

			// compensating release: undeliver everything back into the
			// reservation, then unreserve the whole remainder
			if course.DeliveredQty > 0 {
				if err := txEvents.Create(ctx, &models.AllocationEvent{
					CourseID:        course.ID,
					InventoryItemID: item.ID,
					HospitalID:      course.HospitalID,
					Type:            enums.AllocationEventUndeliver,
					Quantity:        course.DeliveredQty,
				}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record undeliver event")
				}
			}
			released := course.ReservedQty + course.DeliveredQty
			if err := txEvents.Create(ctx, &models.AllocationEvent{
				CourseID:        course.ID,
				InventoryItemID: item.ID,
				HospitalID:      course.HospitalID,
				Type:            enums.AllocationEventUnreserve,
				Quantity:        released,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record unreserve event")
			}

			item.ReservedQty -= course.ReservedQty
			item.DeliveredQty -= course.DeliveredQty
			if err := txItems.UpdateCounters(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory counters")
			}
		}

		if err := txCourses.Delete(ctx, courseID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete course")
		}
		return nil
	})
	s.metrics.ObserveDuration("delete", time.Since(start))
	if err != nil {
		s.metrics.IncFailure("delete")
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete course")
	}
	s.metrics.IncSuccess("delete")
	return nil
}

// applyTransition mutates the in-memory course and item according to the
// requested operation, or returns an error leaving both unchanged.
//
// Units only move along free stock <-> reserved <-> delivered; deliver never
// draws from free stock directly and undeliver returns units to this
// course's reservation, not to free stock.
func applyTransition(course *models.TreatmentCourse, item *models.InventoryItem, action enums.AllocationEventType, qty int) error {
	switch action {
	case enums.AllocationEventReserve:
		if available := item.Available(); available < qty {
			return pkgerrors.NewInsufficientQuantity("available", available, qty)
		}
		if capacity := course.TotalQuantity - course.ReservedQty - course.DeliveredQty; capacity < qty {
			return pkgerrors.NewInsufficientQuantity("remaining", capacity, qty)
		}
		course.ReservedQty += qty
		item.ReservedQty += qty
		course.AllocationStatus = enums.AllocationStatusReserved

	case enums.AllocationEventDeliver:
		if course.ReservedQty < qty {
			return pkgerrors.NewInsufficientQuantity("reserved", course.ReservedQty, qty)
		}
		course.ReservedQty -= qty
		course.DeliveredQty += qty
		item.ReservedQty -= qty
		item.DeliveredQty += qty
		course.AllocationStatus = enums.AllocationStatusDelivered

	case enums.AllocationEventUnreserve:
		if course.ReservedQty < qty {
			return pkgerrors.NewInsufficientQuantity("reserved", course.ReservedQty, qty)
		}
		course.ReservedQty -= qty
		item.ReservedQty -= qty
		if course.ReservedQty == 0 {
			course.AllocationStatus = enums.AllocationStatusCreated
		} else {
			course.AllocationStatus = enums.AllocationStatusReserved
		}

	case enums.AllocationEventUndeliver:
		if course.DeliveredQty < qty {
			return pkgerrors.NewInsufficientQuantity("delivered", course.DeliveredQty, qty)
		}
		course.DeliveredQty -= qty
		course.ReservedQty += qty
		item.DeliveredQty -= qty
		item.ReservedQty += qty
		course.AllocationStatus = enums.AllocationStatusReserved

	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transition action %q", action))
	}

	course.RemainingQty = course.TotalQuantity - course.DeliveredQty
	course.IsReserved = course.ReservedQty > 0
	course.IsDelivered = course.DeliveredQty > 0
	return nil
}

func seededStatus(reserved, delivered int) enums.AllocationStatus {
	switch {
	case delivered > 0:
		return enums.AllocationStatusDelivered
	case reserved > 0:
		return enums.AllocationStatusReserved
	default:
		return enums.AllocationStatusCreated
	}
}

func validateCreateInput(input CreateCourseInput) error {
	if input.PatientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "patient id is required")
	}
	if input.DoctorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "doctor id is required")
	}
	if input.HospitalID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "hospital id is required")
	}
	if input.InventoryItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory item id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "course name is required")
	}
	if input.TotalQuantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total quantity must be a positive integer")
	}
	if input.SeedReserved < 0 || input.SeedDelivered < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "seed quantities cannot be negative")
	}
	if input.SeedReserved+input.SeedDelivered > input.TotalQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "seed quantities exceed total quantity")
	}
	if input.StartDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date is required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede start date")
	}
	for i, dose := range input.Doses {
		if dose.ScheduledDate.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("dose %d: scheduled date is required", i+1))
		}
		if dose.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("dose %d: quantity must be a positive integer", i+1))
		}
	}
	return nil
}

package doses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/internal/courses"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

// Service exposes dose administration tracking. Recording an outcome never
// touches inventory counters; it only drives the course's dosing status.
type Service interface {
	RecordDose(ctx context.Context, courseID uuid.UUID, doseNumber int, input RecordDoseInput) (*RecordDoseResult, error)
	ListDoses(ctx context.Context, courseID uuid.UUID) ([]models.TreatmentDose, error)
}

// RecordDoseInput holds the administration outcome for one dose.
type RecordDoseInput struct {
	Status      enums.DoseStatus
	TakenAt     *time.Time
	TakenBy     *uuid.UUID
	SideEffects *string
	Notes       *string
}

// RecordDoseResult carries the updated dose plus the recomputed course
// dosing status.
type RecordDoseResult struct {
	Dose         *models.TreatmentDose `json:"dose"`
	DosingStatus enums.DosingStatus    `json:"dosing_status"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       *Repository
	courseRepo *courses.Repository
	dbClient   txRunner
	now        func() time.Time
}

// NewService constructs a dose service instance.
func NewService(repo *Repository, courseRepo *courses.Repository, dbClient txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dose repository required")
	}
	if courseRepo == nil {
		return nil, fmt.Errorf("course repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, courseRepo: courseRepo, dbClient: dbClient, now: time.Now}, nil
}

func (s *service) RecordDose(ctx context.Context, courseID uuid.UUID, doseNumber int, input RecordDoseInput) (*RecordDoseResult, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id is required")
	}
	if doseNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dose number must be a positive integer")
	}
	status := input.Status
	if status == "" {
		status = enums.DoseStatusTaken
	}
	if !status.IsValid() || status == enums.DoseStatusScheduled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid dose outcome %q", input.Status))
	}

	var result RecordDoseResult
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txDoses := s.repo.WithTx(tx)
		txCourses := s.courseRepo.WithTx(tx)

		course, err := txCourses.FindByIDForUpdate(ctx, courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock course")
		}

		dose, err := txDoses.FindByCourseAndNumber(ctx, courseID, doseNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "dose not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load dose")
		}

		applyOutcome(dose, status, input, s.now)

		if err := txDoses.UpdateOutcome(ctx, dose); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update dose outcome")
		}

		total, taken, err := txDoses.CountByCourseID(ctx, courseID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count doses")
		}

		dosingStatus := aggregateDosingStatus(course.DosingStatus, total, taken)
		if dosingStatus != course.DosingStatus {
			if err := txCourses.UpdateDosingStatus(ctx, courseID, dosingStatus); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update dosing status")
			}
		}

		result = RecordDoseResult{Dose: dose, DosingStatus: dosingStatus}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record dose")
	}
	return &result, nil
}

func (s *service) ListDoses(ctx context.Context, courseID uuid.UUID) ([]models.TreatmentDose, error) {
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course id is required")
	}
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load course")
	}

	doses, err := s.repo.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list doses")
	}
	return doses, nil
}

func applyOutcome(dose *models.TreatmentDose, status enums.DoseStatus, input RecordDoseInput, now func() time.Time) {
	dose.Status = status
	dose.IsTaken = status == enums.DoseStatusTaken
	dose.TakenBy = input.TakenBy
	dose.SideEffects = input.SideEffects
	dose.Notes = input.Notes

	if !dose.IsTaken {
		dose.IsOnTime = false
		dose.TakenAt = nil
		dose.TakenDate = nil
		return
	}

	takenAt := now().UTC()
	if input.TakenAt != nil {
		takenAt = input.TakenAt.UTC()
	}
	takenDate := takenAt.Truncate(24 * time.Hour)
	dose.TakenAt = &takenAt
	dose.TakenDate = &takenDate

	// on time means administered no later than the scheduled calendar day
	scheduled := dose.ScheduledDate.UTC().Truncate(24 * time.Hour)
	dose.IsOnTime = !takenDate.After(scheduled)
}

// aggregateDosingStatus derives the coarse lifecycle status from dose counts
// alone. A fully taken schedule completes the course, any taken dose puts it
// in progress, and correcting the last taken dose moves a completed course
// back to in progress rather than to pending.
func aggregateDosingStatus(current enums.DosingStatus, total, taken int64) enums.DosingStatus {
	switch {
	case total > 0 && taken == total:
		return enums.DosingStatusCompleted
	case taken > 0:
		return enums.DosingStatusInProgress
	case current == enums.DosingStatusCompleted || current == enums.DosingStatusInProgress:
		return enums.DosingStatusInProgress
	default:
		return current
	}
}

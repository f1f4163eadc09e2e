package controllers

import (
	"net/http"
	"time"

	"github.com/hospicare/hospicare-backend/api/responses"
	"github.com/hospicare/hospicare-backend/api/validators"
	"github.com/hospicare/hospicare-backend/internal/doses"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
	"github.com/hospicare/hospicare-backend/pkg/logger"
)

type recordDoseRequest struct {
	Status      string     `json:"status" validate:"omitempty,oneof=taken missed skipped"`
	TakenAt     *time.Time `json:"takenAt,omitempty"`
	TakenBy     *string    `json:"takenBy,omitempty" validate:"omitempty,uuid"`
	SideEffects *string    `json:"sideEffects,omitempty" validate:"omitempty,max=1000"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DoseRecord captures the administration outcome for one scheduled dose and
// returns the recomputed course dosing status alongside it.
func DoseRecord(svc doses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "doses service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doseNumber, err := validators.ParseURLParamInt(r, "doseNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req recordDoseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := doses.RecordDoseInput{
			TakenAt:     req.TakenAt,
			SideEffects: req.SideEffects,
			Notes:       req.Notes,
		}
		if req.Status != "" {
			status, err := enums.ParseDoseStatus(req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = status
		}
		takenBy, err := parseOptionalUUIDField(req.TakenBy, "takenBy")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.TakenBy = takenBy

		result, err := svc.RecordDose(r.Context(), courseID, doseNumber, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DoseList returns the course's dose schedule in dose-number order.
func DoseList(svc doses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "doses service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		schedule, err := svc.ListDoses(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, schedule)
	}
}

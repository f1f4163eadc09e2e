package controllers

import (
	"net/http"

	"github.com/hospicare/hospicare-backend/api/responses"
	"github.com/hospicare/hospicare-backend/api/validators"
	"github.com/hospicare/hospicare-backend/internal/allocations"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
	"github.com/hospicare/hospicare-backend/pkg/logger"
)

// CourseEvents returns the course's allocation ledger in insertion order.
// Events persist after the course is deleted, so this works for tombstones too.
func CourseEvents(svc allocations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocations service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.ListByCourse(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}

// CourseTotals folds the course ledger into net reserved and delivered sums.
func CourseTotals(svc allocations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allocations service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.CourseTotals(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

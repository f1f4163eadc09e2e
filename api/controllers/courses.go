package controllers

import (
	"net/http"
	"time"

	"github.com/hospicare/hospicare-backend/api/responses"
	"github.com/hospicare/hospicare-backend/api/validators"
	"github.com/hospicare/hospicare-backend/internal/courses"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
	"github.com/hospicare/hospicare-backend/pkg/logger"
	"github.com/hospicare/hospicare-backend/pkg/pagination"
)

type createCourseDoseRequest struct {
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	ScheduledTime string    `json:"scheduledTime" validate:"required,max=16"`
	Quantity      int       `json:"quantity" validate:"required,gt=0"`
}

type createCourseRequest struct {
	PatientID       string                    `json:"patientId" validate:"required,uuid"`
	DoctorID        string                    `json:"doctorId" validate:"required,uuid"`
	HospitalID      string                    `json:"hospitalId" validate:"required,uuid"`
	InventoryItemID string                    `json:"inventoryItemId" validate:"required,uuid"`
	Name            string                    `json:"name" validate:"required,max=255"`
	Description     *string                   `json:"description,omitempty"`
	Instructions    *string                   `json:"instructions,omitempty"`
	TotalQuantity   int                       `json:"totalQuantity" validate:"required,gt=0"`
	StartDate       time.Time                 `json:"startDate" validate:"required"`
	EndDate         *time.Time                `json:"endDate,omitempty"`
	SeedReserved    int                       `json:"seedReserved" validate:"gte=0"`
	SeedDelivered   int                       `json:"seedDelivered" validate:"gte=0"`
	Doses           []createCourseDoseRequest `json:"doses" validate:"dive"`
}

type transitionCourseRequest struct {
	Action     string  `json:"action" validate:"required,oneof=reserve deliver unreserve undeliver"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	RecordedBy *string `json:"recordedBy,omitempty" validate:"omitempty,uuid"`
}

// CourseCreate opens a treatment course against a stocked item, snapshotting
// availability and seeding any pre-allocated quantities.
func CourseCreate(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		var req createCourseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patientID, err := parseUUIDField(req.PatientID, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doctorID, err := parseUUIDField(req.DoctorID, "doctorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hospitalID, err := parseUUIDField(req.HospitalID, "hospitalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDField(req.InventoryItemID, "inventoryItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := courses.CreateCourseInput{
			PatientID:       patientID,
			DoctorID:        doctorID,
			HospitalID:      hospitalID,
			InventoryItemID: itemID,
			Name:            validators.SanitizeString(req.Name, 255),
			Description:     req.Description,
			Instructions:    req.Instructions,
			TotalQuantity:   req.TotalQuantity,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			SeedReserved:    req.SeedReserved,
			SeedDelivered:   req.SeedDelivered,
		}
		for _, dose := range req.Doses {
			input.Doses = append(input.Doses, courses.CourseDoseInput{
				ScheduledDate: dose.ScheduledDate,
				ScheduledTime: dose.ScheduledTime,
				Quantity:      dose.Quantity,
			})
		}

		course, err := svc.CreateCourse(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, course)
	}
}

// CourseDetail returns a course with its ordered dose schedule.
func CourseDetail(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.GetCourse(r.Context(), courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// CourseList returns cursor-paginated courses filtered by hospital or patient.
func CourseList(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		hospitalID, err := validators.ParseQueryUUID(r, "hospitalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patientID, err := validators.ParseQueryUUID(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := courses.ListCoursesInput{
			HospitalID: hospitalID,
			PatientID:  patientID,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		}

		result, err := svc.ListCourses(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CourseTransition moves stock between the course's allocation pools.
func CourseTransition(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req transitionCourseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseAllocationEventType(req.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}
		recordedBy, err := parseOptionalUUIDField(req.RecordedBy, "recordedBy")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		course, err := svc.TransitionCourse(r.Context(), courseID, courses.TransitionInput{
			Action:     action,
			Quantity:   req.Quantity,
			RecordedBy: recordedBy,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, course)
	}
}

// CourseDelete removes a course after releasing everything it still holds.
func CourseDelete(svc courses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courses service unavailable"))
			return
		}

		courseID, err := validators.ParseURLParamUUID(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCourse(r.Context(), courseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/internal/courses"
	"github.com/hospicare/hospicare-backend/internal/doses"
	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/config"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

type stubInventoryService struct{}

func (stubInventoryService) CreateItem(_ context.Context, input inventory.CreateItemInput) (*inventory.ItemDTO, error) {
	return &inventory.ItemDTO{ID: uuid.New(), HospitalID: input.HospitalID, Name: input.Name, Quantity: input.Quantity}, nil
}

func (stubInventoryService) GetItem(_ context.Context, _ uuid.UUID) (*inventory.ItemDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

func (stubInventoryService) ListItems(_ context.Context, _ uuid.UUID) ([]inventory.ItemDTO, error) {
	return []inventory.ItemDTO{}, nil
}

func (stubInventoryService) ListItemEvents(_ context.Context, _ uuid.UUID) ([]models.AllocationEvent, error) {
	return []models.AllocationEvent{}, nil
}

func (stubInventoryService) Reconcile(_ context.Context, _ uuid.UUID) (*inventory.ReconciliationReport, error) {
	return &inventory.ReconciliationReport{}, nil
}

type stubCoursesService struct{}

func (stubCoursesService) CreateCourse(_ context.Context, _ courses.CreateCourseInput) (*courses.CourseDTO, error) {
	return &courses.CourseDTO{ID: uuid.New()}, nil
}

func (stubCoursesService) GetCourse(_ context.Context, _ uuid.UUID) (*courses.CourseDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "treatment course not found")
}

func (stubCoursesService) ListCourses(_ context.Context, _ courses.ListCoursesInput) (*courses.CourseListResult, error) {
	return &courses.CourseListResult{Courses: []courses.CourseDTO{}}, nil
}

func (stubCoursesService) TransitionCourse(_ context.Context, _ uuid.UUID, _ courses.TransitionInput) (*courses.CourseDTO, error) {
	return &courses.CourseDTO{}, nil
}

func (stubCoursesService) DeleteCourse(_ context.Context, _ uuid.UUID) error {
	return nil
}

type stubDosesService struct{}

func (stubDosesService) RecordDose(_ context.Context, _ uuid.UUID, _ int, _ doses.RecordDoseInput) (*doses.RecordDoseResult, error) {
	return &doses.RecordDoseResult{}, nil
}

func (stubDosesService) ListDoses(_ context.Context, _ uuid.UUID) ([]models.TreatmentDose, error) {
	return []models.TreatmentDose{}, nil
}

type stubAllocationsService struct{}

func (stubAllocationsService) RecordEvent(_ context.Context, _ allocations.RecordEventInput) (*models.AllocationEvent, error) {
	return &models.AllocationEvent{}, nil
}

func (stubAllocationsService) ListByCourse(_ context.Context, _ uuid.UUID) ([]models.AllocationEvent, error) {
	return []models.AllocationEvent{}, nil
}

func (stubAllocationsService) ListByItem(_ context.Context, _ uuid.UUID) ([]models.AllocationEvent, error) {
	return []models.AllocationEvent{}, nil
}

func (stubAllocationsService) CourseTotals(_ context.Context, _ uuid.UUID) (allocations.Totals, error) {
	return allocations.Totals{}, nil
}

func (stubAllocationsService) ItemTotals(_ context.Context, _ uuid.UUID) (allocations.Totals, error) {
	return allocations.Totals{}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	return NewRouter(
		cfg,
		nil,
		nil,
		nil,
		prometheus.NewRegistry(),
		stubInventoryService{},
		stubCoursesService{},
		stubDosesService{},
		stubAllocationsService{},
	)
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-HospiCare-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterInventoryListRequiresHospital(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/inventory?hospitalId="+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterCourseRoutesValidateIDs(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/courses/"+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from stub got %d", resp.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND got %s", payload.Error.Code)
	}
}

func TestRouterCourseCreateRejectsUnknownFields(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses", strings.NewReader(`{"surprise":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRouterCourseDelete(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/courses/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterCourseEventsAndDoses(t *testing.T) {
	router := newTestRouter()

	courseID := uuid.NewString()
	for _, path := range []string{
		"/api/v1/courses/" + courseID + "/events",
		"/api/v1/courses/" + courseID + "/totals",
		"/api/v1/courses/" + courseID + "/doses",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

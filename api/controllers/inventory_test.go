package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

type testInventoryService struct {
	createFn    func(ctx context.Context, input inventory.CreateItemInput) (*inventory.ItemDTO, error)
	getFn       func(ctx context.Context, itemID uuid.UUID) (*inventory.ItemDTO, error)
	listFn      func(ctx context.Context, hospitalID uuid.UUID) ([]inventory.ItemDTO, error)
	eventsFn    func(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error)
	reconcileFn func(ctx context.Context, hospitalID uuid.UUID) (*inventory.ReconciliationReport, error)
}

func (s *testInventoryService) CreateItem(ctx context.Context, input inventory.CreateItemInput) (*inventory.ItemDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &inventory.ItemDTO{}, nil
}

func (s *testInventoryService) GetItem(ctx context.Context, itemID uuid.UUID) (*inventory.ItemDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, itemID)
	}
	return &inventory.ItemDTO{}, nil
}

func (s *testInventoryService) ListItems(ctx context.Context, hospitalID uuid.UUID) ([]inventory.ItemDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, hospitalID)
	}
	return []inventory.ItemDTO{}, nil
}

func (s *testInventoryService) ListItemEvents(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	if s.eventsFn != nil {
		return s.eventsFn(ctx, itemID)
	}
	return []models.AllocationEvent{}, nil
}

func (s *testInventoryService) Reconcile(ctx context.Context, hospitalID uuid.UUID) (*inventory.ReconciliationReport, error) {
	if s.reconcileFn != nil {
		return s.reconcileFn(ctx, hospitalID)
	}
	return &inventory.ReconciliationReport{}, nil
}

func TestInventoryCreateSuccess(t *testing.T) {
	hospitalID := uuid.New()
	var captured inventory.CreateItemInput
	svc := &testInventoryService{
		createFn: func(_ context.Context, input inventory.CreateItemInput) (*inventory.ItemDTO, error) {
			captured = input
			return &inventory.ItemDTO{ID: uuid.New(), HospitalID: input.HospitalID}, nil
		},
	}

	body := `{"hospitalId": "` + hospitalID.String() + `", "name": "Amoxicillin 500mg", "category": "medication", "quantity": 100}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	resp := httptest.NewRecorder()
	InventoryCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.HospitalID != hospitalID || captured.Quantity != 100 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Category != enums.TreatmentCategoryMedication {
		t.Fatalf("unexpected category %s", captured.Category)
	}
}

func TestInventoryCreateRejectsBadCategory(t *testing.T) {
	body := `{"hospitalId": "` + uuid.NewString() + `", "name": "X", "category": "potion", "quantity": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	resp := httptest.NewRecorder()
	InventoryCreate(&testInventoryService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.Bytes()); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestInventoryReconcileRequiresHospital(t *testing.T) {
	called := false
	svc := &testInventoryService{
		reconcileFn: func(_ context.Context, _ uuid.UUID) (*inventory.ReconciliationReport, error) {
			called = true
			return &inventory.ReconciliationReport{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/reconcile", nil)
	resp := httptest.NewRecorder()
	InventoryReconcile(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if called {
		t.Fatal("service must not run without a hospital filter")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/inventory/reconcile?hospitalId="+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	InventoryReconcile(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

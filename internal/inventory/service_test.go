package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
	pkgerrors "github.com/hospicare/hospicare-backend/pkg/errors"
)

type fakeCourseSummer struct {
	reserved  map[uuid.UUID]int
	delivered map[uuid.UUID]int
	err       error
}

func (f *fakeCourseSummer) SumCountersByItemID(ctx context.Context, itemID uuid.UUID) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.reserved[itemID], f.delivered[itemID], nil
}

type fakeEventLister struct {
	events map[uuid.UUID][]models.AllocationEvent
	err    error
}

func (f *fakeEventLister) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[itemID], nil
}

func newTestService(t *testing.T) (Service, *Repository, *fakeCourseSummer, *fakeEventLister) {
	t.Helper()

	repo := NewRepository(newTestDB(t))
	courses := &fakeCourseSummer{reserved: map[uuid.UUID]int{}, delivered: map[uuid.UUID]int{}}
	events := &fakeEventLister{events: map[uuid.UUID][]models.AllocationEvent{}}

	svc, err := NewService(repo, courses, events)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc, repo, courses, events
}

func TestService_CreateItem(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateItem(ctx, CreateItemInput{
		HospitalID: uuid.New(),
		Name:       "  Insulin Glargine  ",
		Quantity:   40,
	})
	if err != nil {
		t.Fatalf("CreateItem error: %v", err)
	}
	if dto.Name != "Insulin Glargine" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Category != enums.TreatmentCategoryMedication.String() {
		t.Fatalf("expected default category, got %q", dto.Category)
	}
	if dto.Available != 40 || dto.ReservedQty != 0 || dto.DeliveredQty != 0 {
		t.Fatalf("unexpected counters: %+v", dto)
	}
}

func TestService_CreateItemValidation(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateItemInput
	}{
		{name: "missing hospital", input: CreateItemInput{Name: "Saline", Quantity: 1}},
		{name: "blank name", input: CreateItemInput{HospitalID: uuid.New(), Name: "   ", Quantity: 1}},
		{name: "negative quantity", input: CreateItemInput{HospitalID: uuid.New(), Name: "Saline", Quantity: -1}},
		{name: "bad category", input: CreateItemInput{HospitalID: uuid.New(), Name: "Saline", Category: enums.TreatmentCategory("narcotics"), Quantity: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, tc.input)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestService_GetItemNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t)

	_, err := svc.GetItem(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ReconcileConsistent(t *testing.T) {
	t.Parallel()

	svc, repo, courses, events := newTestService(t)
	ctx := context.Background()
	hospitalID := uuid.New()

	item := &models.InventoryItem{
		ID:           uuid.New(),
		HospitalID:   hospitalID,
		Name:         "Ceftriaxone",
		Category:     enums.TreatmentCategoryMedication,
		Quantity:     100,
		ReservedQty:  5,
		DeliveredQty: 15,
	}
	if _, err := repo.Create(ctx, item); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	courses.reserved[item.ID] = 5
	courses.delivered[item.ID] = 15
	events.events[item.ID] = []models.AllocationEvent{
		{Type: enums.AllocationEventReserve, Quantity: 20},
		{Type: enums.AllocationEventDeliver, Quantity: 15},
	}

	report, err := svc.Reconcile(ctx, hospitalID)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if !report.Consistent || len(report.Items) != 1 {
		t.Fatalf("expected consistent single-item report, got %+v", report)
	}
	entry := report.Items[0]
	if !entry.Consistent || entry.ReplayedReserved != 5 || entry.ReplayedDelivered != 15 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestService_ReconcileFlagsDivergence(t *testing.T) {
	t.Parallel()

	svc, repo, courses, events := newTestService(t)
	ctx := context.Background()
	hospitalID := uuid.New()

	item := &models.InventoryItem{
		ID:          uuid.New(),
		HospitalID:  hospitalID,
		Name:        "Packed Red Cells",
		Category:    enums.TreatmentCategoryBloodProduct,
		Quantity:    30,
		ReservedQty: 10,
	}
	if _, err := repo.Create(ctx, item); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	// courses agree but the ledger is missing an event
	courses.reserved[item.ID] = 10
	events.events[item.ID] = []models.AllocationEvent{
		{Type: enums.AllocationEventReserve, Quantity: 4},
	}

	report, err := svc.Reconcile(ctx, hospitalID)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if report.Consistent {
		t.Fatal("expected divergence to mark the report inconsistent")
	}
	if report.Items[0].ReplayedReserved != 4 || report.Items[0].Reserved != 10 {
		t.Fatalf("unexpected entry: %+v", report.Items[0])
	}
}

func TestService_ReconcileSweepError(t *testing.T) {
	t.Parallel()

	svc, repo, courses, _ := newTestService(t)
	ctx := context.Background()
	hospitalID := uuid.New()

	if _, err := repo.Create(ctx, &models.InventoryItem{
		ID:         uuid.New(),
		HospitalID: hospitalID,
		Name:       "Ventilator Circuit",
		Category:   enums.TreatmentCategoryEquipment,
		Quantity:   2,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	courses.err = errors.New("course table unavailable")

	_, err := svc.Reconcile(ctx, hospitalID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

package allocations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, event *models.AllocationEvent) error
	byCourse map[uuid.UUID][]models.AllocationEvent
	byItem   map[uuid.UUID][]models.AllocationEvent
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, event *models.AllocationEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]models.AllocationEvent, error) {
	return f.byCourse[courseID], nil
}

func (f *fakeRepository) ListByItemID(ctx context.Context, itemID uuid.UUID) ([]models.AllocationEvent, error) {
	return f.byItem[itemID], nil
}

func TestService_RecordEvent(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	metadata := json.RawMessage(`{"note":"initial reservation"}`)
	input := RecordEventInput{
		CourseID:        uuid.New(),
		InventoryItemID: uuid.New(),
		HospitalID:      uuid.New(),
		Type:            enums.AllocationEventReserve,
		Quantity:        20,
		Metadata:        metadata,
	}

	var created *models.AllocationEvent
	repo.createFn = func(ctx context.Context, event *models.AllocationEvent) error {
		created = event
		return nil
	}

	got, err := svc.RecordEvent(context.Background(), input)
	if err != nil {
		t.Fatalf("RecordEvent error: %v", err)
	}
	if created == nil {
		t.Fatal("expected allocation event to be created")
	}
	if created.CourseID != input.CourseID || created.Type != input.Type || created.Quantity != input.Quantity {
		t.Fatalf("unexpected allocation event data: %+v", created)
	}
	if created.InventoryItemID != input.InventoryItemID || created.HospitalID != input.HospitalID {
		t.Fatalf("missing item/hospital metadata: %+v", created)
	}
	if string(created.Metadata) != string(metadata) {
		t.Fatalf("metadata mismatch: %s", created.Metadata)
	}
	if got != created {
		t.Fatalf("service should return created event")
	}
}

func TestService_RecordEventValidation(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tests := []struct {
		name  string
		input RecordEventInput
	}{
		{
			name: "missing course id",
			input: RecordEventInput{
				InventoryItemID: uuid.New(),
				HospitalID:      uuid.New(),
				Type:            enums.AllocationEventReserve,
				Quantity:        1,
			},
		},
		{
			name: "missing inventory item id",
			input: RecordEventInput{
				CourseID:   uuid.New(),
				HospitalID: uuid.New(),
				Type:       enums.AllocationEventReserve,
				Quantity:   1,
			},
		},
		{
			name: "missing hospital id",
			input: RecordEventInput{
				CourseID:        uuid.New(),
				InventoryItemID: uuid.New(),
				Type:            enums.AllocationEventReserve,
				Quantity:        1,
			},
		},
		{
			name: "invalid type",
			input: RecordEventInput{
				CourseID:        uuid.New(),
				InventoryItemID: uuid.New(),
				HospitalID:      uuid.New(),
				Type:            enums.AllocationEventType("restock"),
				Quantity:        1,
			},
		},
		{
			name: "zero quantity",
			input: RecordEventInput{
				CourseID:        uuid.New(),
				InventoryItemID: uuid.New(),
				HospitalID:      uuid.New(),
				Type:            enums.AllocationEventDeliver,
				Quantity:        0,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.RecordEvent(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_RecordEventRepoError(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	expectedErr := errors.New("boom")
	repo.createFn = func(ctx context.Context, event *models.AllocationEvent) error {
		return expectedErr
	}

	if _, err := svc.RecordEvent(context.Background(), RecordEventInput{
		CourseID:        uuid.New(),
		InventoryItemID: uuid.New(),
		HospitalID:      uuid.New(),
		Type:            enums.AllocationEventUnreserve,
		Quantity:        5,
	}); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}

func TestReplay(t *testing.T) {
	courseID := uuid.New()
	itemID := uuid.New()
	event := func(typ enums.AllocationEventType, qty int) models.AllocationEvent {
		return models.AllocationEvent{
			CourseID:        courseID,
			InventoryItemID: itemID,
			Type:            typ,
			Quantity:        qty,
		}
	}

	tests := []struct {
		name   string
		events []models.AllocationEvent
		want   Totals
	}{
		{
			name: "empty ledger",
			want: Totals{},
		},
		{
			name:   "single reservation",
			events: []models.AllocationEvent{event(enums.AllocationEventReserve, 20)},
			want:   Totals{Reserved: 20},
		},
		{
			name: "delivery moves reserved to delivered",
			events: []models.AllocationEvent{
				event(enums.AllocationEventReserve, 20),
				event(enums.AllocationEventDeliver, 15),
			},
			want: Totals{Reserved: 5, Delivered: 15},
		},
		{
			name: "undeliver earmarks units back to the reservation",
			events: []models.AllocationEvent{
				event(enums.AllocationEventReserve, 20),
				event(enums.AllocationEventDeliver, 15),
				event(enums.AllocationEventUnreserve, 5),
				event(enums.AllocationEventUndeliver, 10),
			},
			want: Totals{Reserved: 10, Delivered: 5},
		},
		{
			name: "round trip returns to zero",
			events: []models.AllocationEvent{
				event(enums.AllocationEventReserve, 7),
				event(enums.AllocationEventUnreserve, 7),
			},
			want: Totals{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Replay(tc.events); got != tc.want {
				t.Fatalf("Replay() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestService_CourseTotals(t *testing.T) {
	courseID := uuid.New()
	repo := &fakeRepository{
		byCourse: map[uuid.UUID][]models.AllocationEvent{
			courseID: {
				{Type: enums.AllocationEventReserve, Quantity: 30},
				{Type: enums.AllocationEventDeliver, Quantity: 10},
			},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	totals, err := svc.CourseTotals(context.Background(), courseID)
	if err != nil {
		t.Fatalf("CourseTotals error: %v", err)
	}
	if totals != (Totals{Reserved: 20, Delivered: 10}) {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	if _, err := svc.CourseTotals(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected error for nil course id")
	}
}

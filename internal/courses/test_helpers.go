package courses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hospicare/hospicare-backend/internal/allocations"
	"github.com/hospicare/hospicare-backend/internal/inventory"
	"github.com/hospicare/hospicare-backend/pkg/db/models"
	"github.com/hospicare/hospicare-backend/pkg/enums"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r *gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:courses_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.InventoryItem{},
		&models.TreatmentCourse{},
		&models.TreatmentDose{},
		&models.AllocationEvent{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(db),
		inventory.NewRepository(db),
		allocations.NewRepository(db),
		&gormTxRunner{db: db},
		nil,
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustCreateTestItem(t *testing.T, db *gorm.DB, quantity int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:         uuid.New(),
		HospitalID: uuid.New(),
		Name:       "Ceftriaxone 1g",
		Category:   enums.TreatmentCategoryMedication,
		Quantity:   quantity,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed inventory item: %v", err)
	}
	return item
}

func mustReloadItem(t *testing.T, db *gorm.DB, id uuid.UUID) *models.InventoryItem {
	t.Helper()
	var item models.InventoryItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("reload inventory item: %v", err)
	}
	return &item
}

func mustReloadCourse(t *testing.T, db *gorm.DB, id uuid.UUID) *models.TreatmentCourse {
	t.Helper()
	var course models.TreatmentCourse
	if err := db.First(&course, "id = ?", id).Error; err != nil {
		t.Fatalf("reload course: %v", err)
	}
	return &course
}

func baseCreateInput(item *models.InventoryItem, total int) CreateCourseInput {
	return CreateCourseInput{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		HospitalID:      item.HospitalID,
		InventoryItemID: item.ID,
		Name:            "Ceftriaxone IV course",
		TotalQuantity:   total,
		StartDate:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

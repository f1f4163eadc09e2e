package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The column tags must stay portable: the repository test suites build their
// schemas with AutoMigrate on sqlite, so Postgres-only defaults such as
// gen_random_uuid() cannot appear in the tags. IDs are assigned in Go and
// the SQL migrations declare the server-side defaults.
func TestAutoMigrateOnSQLite(t *testing.T) {
	t.Parallel()

	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&InventoryItem{},
		&TreatmentCourse{},
		&TreatmentDose{},
		&AllocationEvent{},
	))

	for _, table := range []string{"inventory_items", "treatment_courses", "treatment_doses", "allocation_events"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

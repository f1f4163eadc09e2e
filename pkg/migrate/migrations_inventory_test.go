package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_items.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"CHECK (quantity >= 0)",
		"CHECK (reserved_qty >= 0)",
		"CHECK (delivered_qty >= 0)",
		"CHECK (reserved_qty + delivered_qty <= quantity)",
		"DROP TABLE IF EXISTS inventory_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAllocationEventsMigrationIsAppendOnlyLedger(t *testing.T) {
	content := readMigration(t, "*_create_allocation_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS allocation_events",
		"CHECK (type IN ('reserve', 'deliver', 'unreserve', 'undeliver'))",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS allocation_events",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// the ledger outlives its course; a cascade here would erase history
	if strings.Contains(content, "REFERENCES treatment_courses") {
		t.Errorf("allocation_events must not reference treatment_courses")
	}
}

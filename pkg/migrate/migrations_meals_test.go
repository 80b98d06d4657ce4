package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMealsMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_meals_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no meals migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS meals",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_meals_title",
		"CREATE INDEX IF NOT EXISTS idx_meals_category_available",
		"-- +goose Down",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSeedMigrationIsIdempotent(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_seed_meals.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no seed migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "ON CONFLICT (title) DO NOTHING") {
		t.Error("seed migration must tolerate re-runs")
	}
}

package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meradukaan/meradukaan-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	if err := migrate.Validate(migrate.Embedded()); err != nil {
		t.Fatalf("validate embedded migrations: %v", err)
	}
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embedded) == 0 || len(embedded) != len(onDisk) {
		t.Fatalf("expected embedded set to mirror disk, got %d embedded and %d on disk", len(embedded), len(onDisk))
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := migrate.ParseVersion("20250101090100"); err != nil || v != 20250101090100 {
		t.Fatalf("unexpected result %d, %v", v, err)
	}
	for _, raw := range []string{"", "2025", "2025010109010x"} {
		if _, err := migrate.ParseVersion(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestInventoryMigrationShape(t *testing.T) {
	content := readMigration(t, "*_create_inventories.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventories",
		"vendor_id uuid PRIMARY KEY",
		"product_list jsonb NOT NULL",
		"version bigint NOT NULL DEFAULT 1",
		"DROP TABLE IF EXISTS inventories",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
	if strings.Contains(content, "REFERENCES products") {
		t.Errorf("inventory documents must not carry a foreign key to products")
	}
}

func TestProductsMigrationShape(t *testing.T) {
	content := readMigration(t, "*_create_products.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"price numeric(12,2) NOT NULL",
		"sub_category text NOT NULL",
		"DROP TABLE IF EXISTS products",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

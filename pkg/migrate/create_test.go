package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	path, err := createSQLMigration(dir, "Add Inventory Index!", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if got := filepath.Base(path); got != "20250304050607_add_inventory_index.sql" {
		t.Fatalf("unexpected filename %s", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(data), "-- +goose Up") || !strings.Contains(string(data), "-- rollback add_inventory_index") {
		t.Fatalf("template not rendered: %s", data)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}

	if _, err := createSQLMigration(dir, "add inventory index", now); err == nil {
		t.Fatal("expected second migration with the same version to fail")
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "  !! "); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := CreateSQLMigration("", "name"); err == nil {
		t.Fatal("expected error for blank dir")
	}
}

func TestValidateRejectsBadMigrations(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail validation")
	}

	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20250101000000_no_down.sql"), []byte("-- +goose Up\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing down marker to fail validation")
	}
}

package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	sqlDB, err := client.SQL()
	if err != nil || sqlDB == nil {
		t.Fatalf("expected sql handle, got %v", err)
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("expected record not found to be detected")
	}
	if IsNotFound(errors.New("other")) {
		t.Fatal("unexpected not found match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: inventories.vendor_id"), "") {
		t.Fatal("expected sqlite unique violation to be detected")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "inventories_pkey"`), "inventories_pkey") {
		t.Fatal("expected named constraint to be detected")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "") {
		t.Fatal("expected translated duplicate key to be detected")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is never a violation")
	}
}

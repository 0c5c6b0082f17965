package inventory

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meradukaan/meradukaan-backend/internal/catalog"
	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/metrics"
)

const (
	createProductsSQL = `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  category TEXT NOT NULL,
  sub_category TEXT NOT NULL,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	createInventoriesSQL = `
CREATE TABLE IF NOT EXISTS inventories (
  vendor_id TEXT PRIMARY KEY,
  product_list TEXT NOT NULL DEFAULT '[]',
  version INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(createProductsSQL).Error)
	require.NoError(t, conn.Exec(createInventoriesSQL).Error)
	return conn
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "inventory-test", Output: io.Discard})
}

type serviceFixture struct {
	db      *gorm.DB
	repo    *Repository
	svc     Service
	metrics *metrics.InventoryMetrics
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	return newServiceFixtureWithStore(t, conn, repo)
}

func newServiceFixtureWithStore(t *testing.T, conn *gorm.DB, store RecordStore) *serviceFixture {
	t.Helper()
	m := metrics.NewInventoryMetrics(nil)
	svc, err := NewService(ServiceParams{
		Repo:          store,
		Catalog:       catalog.NewRepository(conn),
		Logger:        newTestLogger(),
		Metrics:       m,
		MaxBatchItems: 5,
	})
	require.NoError(t, err)
	return &serviceFixture{db: conn, repo: NewRepository(conn), svc: svc, metrics: m}
}

func mustCreateCatalogProduct(t *testing.T, conn *gorm.DB, name, category, sub, price string) models.CatalogProduct {
	t.Helper()
	product := models.CatalogProduct{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		SubCategory: sub,
		Image:       "https://cdn.meradukaan.in/" + name + ".png",
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func mustDeleteCatalogProduct(t *testing.T, conn *gorm.DB, id uuid.UUID) {
	t.Helper()
	require.NoError(t, conn.Delete(&models.CatalogProduct{}, "id = ?", id).Error)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meradukaan/meradukaan-backend/pkg/db"
	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

// ErrStaleRecord is returned by Save when the stored version no longer
// matches the version the caller read.
var ErrStaleRecord = errors.New("inventory record modified concurrently")

// RecordStore is the persistence surface the service and sweeper depend on.
type RecordStore interface {
	FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.InventoryRecord, error)
	Ensure(ctx context.Context, vendorID uuid.UUID) (*models.InventoryRecord, error)
	Save(ctx context.Context, record *models.InventoryRecord) error
	PruneProducts(ctx context.Context, vendorID uuid.UUID, productIDs []uuid.UUID) (int, error)
	ListVendorIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

// Repository persists vendor inventory documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByVendor loads the vendor's record. A missing record surfaces as
// gorm.ErrRecordNotFound.
func (r *Repository) FindByVendor(ctx context.Context, vendorID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "vendor_id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	if record.ProductList == nil {
		record.ProductList = types.InventoryEntries{}
	}
	return &record, nil
}

// Ensure creates an empty record when none exists and returns the stored one.
// Concurrent callers race on the primary key; the loser's insert is a no-op.
func (r *Repository) Ensure(ctx context.Context, vendorID uuid.UUID) (*models.InventoryRecord, error) {
	record := models.InventoryRecord{
		VendorID:    vendorID,
		ProductList: types.InventoryEntries{},
		Version:     1,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).
		Error; err != nil && !db.IsUniqueViolation(err, "") {
		return nil, err
	}
	return r.FindByVendor(ctx, vendorID)
}

// Save writes the whole product list if the stored version still equals
// record.Version, then advances record.Version.
func (r *Repository) Save(ctx context.Context, record *models.InventoryRecord) error {
	if record == nil {
		return errors.New("inventory record required")
	}
	now := time.Now().UTC()
	list := record.ProductList
	if list == nil {
		list = types.InventoryEntries{}
	}

	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("vendor_id = ? AND version = ?", record.VendorID, record.Version).
		Updates(map[string]any{
			"product_list": list,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	record.ProductList = list
	record.Version++
	record.UpdatedAt = now
	return nil
}

// PruneProducts removes every entry referencing productIDs and reports how
// many were dropped. Repeating the call is harmless.
func (r *Repository) PruneProducts(ctx context.Context, vendorID uuid.UUID, productIDs []uuid.UUID) (int, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	record, err := r.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	kept := record.ProductList.Without(productIDs...)
	removed := len(record.ProductList) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	record.ProductList = kept
	if err := r.Save(ctx, record); err != nil {
		return 0, err
	}
	return removed, nil
}

// ListVendorIDs pages through vendor ids in ascending order, starting after
// the provided cursor. Pass uuid.Nil for the first page.
func (r *Repository) ListVendorIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("vendor_id > ?", after).
		Order("vendor_id ASC").
		Limit(limit).
		Pluck("vendor_id", &ids).
		Error; err != nil {
		return nil, err
	}
	return ids, nil
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

// InventoryRecord is the per-vendor inventory document. Version is bumped on
// every save and guards concurrent writers.
type InventoryRecord struct {
	VendorID    uuid.UUID              `gorm:"column:vendor_id;type:uuid;primaryKey"`
	ProductList types.InventoryEntries `gorm:"column:product_list;type:jsonb;not null"`
	Version     int64                  `gorm:"column:version;not null;default:1"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryRecord) TableName() string { return "inventories" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogProduct is the shared, vendor-independent product definition.
type CatalogProduct struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string          `gorm:"column:category;not null"`
	SubCategory string          `gorm:"column:sub_category;not null"`
	Image       string          `gorm:"column:image"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CatalogProduct) TableName() string { return "products" }

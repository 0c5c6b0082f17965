package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

// EntryDTO is a stored override as returned by mutations.
type EntryDTO struct {
	Product     uuid.UUID        `json:"product"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// RecordDTO is the raw vendor record returned by mutations.
type RecordDTO struct {
	VendorID    uuid.UUID  `json:"vendorId"`
	ProductList []EntryDTO `json:"productList"`
	Version     int64      `json:"version"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProductSummary is the catalog projection embedded in resolved entries.
type ProductSummary struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	SubCategory string    `json:"subCategory"`
}

// ResolvedEntry is one inventory entry merged with its catalog product.
type ResolvedEntry struct {
	Product     ProductSummary  `json:"product"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// ResolvedInventory is the read-time view of a vendor's inventory.
type ResolvedInventory struct {
	VendorID    uuid.UUID       `json:"vendorId"`
	ProductList []ResolvedEntry `json:"productList"`
}

// CategoryOverview counts entries per category and sub-category.
type CategoryOverview map[string]map[string]int

func entryToDTO(entry types.InventoryEntry) EntryDTO {
	return EntryDTO{
		Product:     entry.ProductID,
		Price:       entry.Price,
		Stock:       entry.Stock,
		Description: entry.Description,
	}
}

func recordToDTO(record *models.InventoryRecord) *RecordDTO {
	if record == nil {
		return nil
	}
	list := make([]EntryDTO, 0, len(record.ProductList))
	for _, entry := range record.ProductList {
		list = append(list, entryToDTO(entry))
	}
	return &RecordDTO{
		VendorID:    record.VendorID,
		ProductList: list,
		Version:     record.Version,
		UpdatedAt:   record.UpdatedAt,
	}
}

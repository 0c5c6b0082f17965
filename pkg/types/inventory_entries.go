package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryEntry is one vendor override layered on a catalog product. Nil
// fields fall back to the catalog default at read time.
type InventoryEntry struct {
	ProductID   uuid.UUID        `json:"product"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// InventoryEntries is the ordered product list persisted as a JSONB document.
type InventoryEntries []InventoryEntry

// Value marshals the list into JSON for Postgres.
func (e InventoryEntries) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes JSONB into the list.
func (e *InventoryEntries) Scan(value interface{}) error {
	if value == nil {
		*e = InventoryEntries{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("inventory entries: unsupported scan type %T", value)
	}

	result := InventoryEntries{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*e = result
	return nil
}

// Index returns the position of productID in the list, or -1.
func (e InventoryEntries) Index(productID uuid.UUID) int {
	for i, entry := range e {
		if entry.ProductID == productID {
			return i
		}
	}
	return -1
}

// ProductIDs returns the referenced product ids in list order.
func (e InventoryEntries) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e))
	for _, entry := range e {
		ids = append(ids, entry.ProductID)
	}
	return ids
}

// Without returns a copy of the list minus every entry whose product is in ids.
func (e InventoryEntries) Without(ids ...uuid.UUID) InventoryEntries {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make(InventoryEntries, 0, len(e))
	for _, entry := range e {
		if _, ok := drop[entry.ProductID]; ok {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// Clone deep-copies the list so callers can mutate entries without touching
// the source record.
func (e InventoryEntries) Clone() InventoryEntries {
	if e == nil {
		return nil
	}
	out := make(InventoryEntries, len(e))
	for i, entry := range e {
		cp := InventoryEntry{ProductID: entry.ProductID}
		if entry.Price != nil {
			v := *entry.Price
			cp.Price = &v
		}
		if entry.Stock != nil {
			v := *entry.Stock
			cp.Stock = &v
		}
		if entry.Description != nil {
			v := *entry.Description
			cp.Description = &v
		}
		out[i] = cp
	}
	return out
}

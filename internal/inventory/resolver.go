package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

// joinedEntry pairs an entry with its catalog product; product is nil when
// the catalog no longer has it.
type joinedEntry struct {
	entry   types.InventoryEntry
	product *models.CatalogProduct
}

func joinCatalog(entries types.InventoryEntries, catalog map[uuid.UUID]models.CatalogProduct) []joinedEntry {
	joined := make([]joinedEntry, 0, len(entries))
	for _, entry := range entries {
		je := joinedEntry{entry: entry}
		if product, ok := catalog[entry.ProductID]; ok {
			p := product
			je.product = &p
		}
		joined = append(joined, je)
	}
	return joined
}

// partition splits joined entries into those with a catalog product and the
// product ids that have none.
func partition(joined []joinedEntry) ([]joinedEntry, []uuid.UUID) {
	present := make([]joinedEntry, 0, len(joined))
	var missing []uuid.UUID
	for _, je := range joined {
		if je.product == nil {
			missing = append(missing, je.entry.ProductID)
			continue
		}
		present = append(present, je)
	}
	return present, missing
}

// effectivePrice returns the vendor override when set, otherwise the catalog
// price. A zero override is a valid price.
func effectivePrice(entry types.InventoryEntry, product models.CatalogProduct) decimal.Decimal {
	if entry.Price != nil {
		return *entry.Price
	}
	return product.Price
}

func resolveEntries(present []joinedEntry) []ResolvedEntry {
	resolved := make([]ResolvedEntry, 0, len(present))
	for _, je := range present {
		resolved = append(resolved, ResolvedEntry{
			Product: ProductSummary{
				ID:          je.product.ID,
				Name:        je.product.Name,
				Image:       je.product.Image,
				SubCategory: je.product.SubCategory,
			},
			Price:       effectivePrice(je.entry, *je.product),
			Stock:       je.entry.Stock,
			Description: je.entry.Description,
		})
	}
	return resolved
}

package inventory

import "github.com/meradukaan/meradukaan-backend/pkg/db/models"

// BuildOverview folds catalog products into per-category, per-sub-category
// counts. Empty input yields an empty, non-nil map.
func BuildOverview(products []models.CatalogProduct) CategoryOverview {
	overview := CategoryOverview{}
	for _, product := range products {
		subs, ok := overview[product.Category]
		if !ok {
			subs = map[string]int{}
			overview[product.Category] = subs
		}
		subs[product.SubCategory]++
	}
	return overview
}

// Filter narrows the overview to a single category. An empty category returns
// the overview unchanged.
func (o CategoryOverview) Filter(category string) CategoryOverview {
	if category == "" {
		return o
	}
	filtered := CategoryOverview{}
	if subs, ok := o[category]; ok {
		filtered[category] = subs
	}
	return filtered
}

func presentProducts(present []joinedEntry) []models.CatalogProduct {
	products := make([]models.CatalogProduct, 0, len(present))
	for _, je := range present {
		products = append(products, *je.product)
	}
	return products
}

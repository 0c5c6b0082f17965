package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

func TestBuildOverview(t *testing.T) {
	products := []models.CatalogProduct{
		{Category: "Dairy", SubCategory: "Milk"},
		{Category: "Dairy", SubCategory: "Milk"},
		{Category: "Snacks", SubCategory: "Chips"},
	}
	assert.Equal(t, CategoryOverview{
		"Dairy":  {"Milk": 2},
		"Snacks": {"Chips": 1},
	}, BuildOverview(products))

	empty := BuildOverview(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestOverviewFilter(t *testing.T) {
	overview := CategoryOverview{"Daily Needs": {"Atta": 3}, "Snacks": {"Chips": 1}}
	assert.Equal(t, overview, overview.Filter(""))
	assert.Equal(t, CategoryOverview{"Daily Needs": {"Atta": 3}}, overview.Filter("Daily Needs"))
	assert.Equal(t, CategoryOverview{}, overview.Filter("Frozen"))
}

func TestJoinAndPartition(t *testing.T) {
	present := models.CatalogProduct{ID: uuid.New(), Name: "milk", Price: decimal.RequireFromString("30"), Category: "Dairy", SubCategory: "Milk"}
	gone := uuid.New()
	entries := types.InventoryEntries{
		{ProductID: present.ID, Price: decPtr("0")},
		{ProductID: gone},
	}

	joined := joinCatalog(entries, map[uuid.UUID]models.CatalogProduct{present.ID: present})
	kept, missing := partition(joined)
	assert.Equal(t, []uuid.UUID{gone}, missing)
	if assert.Len(t, kept, 1) {
		resolved := resolveEntries(kept)
		assert.True(t, resolved[0].Price.IsZero(), "explicit zero override wins over catalog price")
	}

	assert.True(t, effectivePrice(types.InventoryEntry{ProductID: present.ID}, present).Equal(present.Price))
}

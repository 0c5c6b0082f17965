package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
)

// Reader is the read-only catalog surface consumed by inventory.
type Reader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogProduct, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.CatalogProduct, error)
}

// Repository reads catalog products from the shared products table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one catalog product. Missing rows surface as
// gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogProduct, error) {
	var product models.CatalogProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the products that exist among ids, keyed by id. Ids with
// no matching row are simply absent from the map.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.CatalogProduct, error) {
	found := make(map[uuid.UUID]models.CatalogProduct, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var rows []models.CatalogProduct
	if err := r.db.WithContext(ctx).
		Where("id IN ?", dedupe(ids)).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		found[row.ID] = row
	}
	return found, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meradukaan/meradukaan-backend/internal/catalog"
	"github.com/meradukaan/meradukaan-backend/pkg/db"
	"github.com/meradukaan/meradukaan-backend/pkg/db/models"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/metrics"
	"github.com/meradukaan/meradukaan-backend/pkg/types"
)

const defaultMaxBatchItems = 200

const (
	opAddProduct    = "add_product"
	opAddProducts   = "add_products"
	opUpdateProduct = "update_product"
	opRemoveProduct = "remove_product"
)

const (
	msgProductNotFound    = "Product not found"
	msgProductExists      = "Product exists"
	msgEntryNotFound      = "Product not found in inventory"
	msgInventoryNotFound  = "Inventory not found"
	msgConcurrentWrite    = "inventory was modified by another request, retry"
	msgSaveFailed         = "failed to save inventory"
	msgLoadFailed         = "failed to load inventory"
	msgCatalogUnavailable = "catalog lookup failed"
)

// Service exposes vendor inventory reads and mutations.
type Service interface {
	AddProduct(ctx context.Context, vendorID uuid.UUID, input AddProductInput) (*RecordDTO, error)
	AddMultipleProducts(ctx context.Context, vendorID uuid.UUID, inputs []AddProductInput) (*RecordDTO, error)
	UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (*EntryDTO, error)
	RemoveProduct(ctx context.Context, vendorID, productID uuid.UUID) (*RecordDTO, error)
	Resolve(ctx context.Context, vendorID uuid.UUID) (*ResolvedInventory, error)
	Overview(ctx context.Context, vendorID uuid.UUID, category string) (CategoryOverview, error)
	ProductIDs(ctx context.Context, vendorID uuid.UUID) ([]uuid.UUID, error)
	Reconcile(ctx context.Context, vendorID uuid.UUID) (int, error)
}

// AddProductInput is one product to add with optional overrides.
type AddProductInput struct {
	ProductID uuid.UUID
	// Ref is the product id as the client sent it. Batch items whose id could
	// not be parsed carry a nil ProductID and are reported by Ref.
	Ref         string
	Stock       int
	Price       *decimal.Decimal
	Description *string
}

// UpdateProductInput carries the overrides to apply. Nil fields are left
// untouched; a blank description clears the override.
type UpdateProductInput struct {
	Price       *decimal.Decimal
	Stock       *int
	Description *string
}

func (in UpdateProductInput) empty() bool {
	return in.Price == nil && in.Stock == nil && in.Description == nil
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Repo          RecordStore
	Catalog       catalog.Reader
	Logger        *logger.Logger
	Metrics       *metrics.InventoryMetrics
	MaxBatchItems int
}

type service struct {
	repo          RecordStore
	catalog       catalog.Reader
	logg          *logger.Logger
	metrics       *metrics.InventoryMetrics
	maxBatchItems int
}

// NewService constructs an inventory service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxItems := params.MaxBatchItems
	if maxItems <= 0 {
		maxItems = defaultMaxBatchItems
	}
	return &service{
		repo:          params.Repo,
		catalog:       params.Catalog,
		logg:          params.Logger,
		metrics:       params.Metrics,
		maxBatchItems: maxItems,
	}, nil
}

// AddProduct appends one product to the vendor's inventory, creating the
// record on first use.
func (s *service) AddProduct(ctx context.Context, vendorID uuid.UUID, input AddProductInput) (dto *RecordDTO, err error) {
	defer func() { s.metrics.ObserveMutation(opAddProduct, err) }()

	record, err := s.appendEntries(ctx, vendorID, []AddProductInput{input}, false)
	if err != nil {
		return nil, err
	}
	return recordToDTO(record), nil
}

// AddMultipleProducts validates the whole batch before a single save. The
// first invalid item aborts the batch.
func (s *service) AddMultipleProducts(ctx context.Context, vendorID uuid.UUID, inputs []AddProductInput) (dto *RecordDTO, err error) {
	defer func() { s.metrics.ObserveMutation(opAddProducts, err) }()

	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productList must contain at least one product")
	}
	if len(inputs) > s.maxBatchItems {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "productList cannot exceed %d products", s.maxBatchItems)
	}

	record, err := s.appendEntries(ctx, vendorID, inputs, true)
	if err != nil {
		return nil, err
	}
	return recordToDTO(record), nil
}

func (s *service) appendEntries(ctx context.Context, vendorID uuid.UUID, inputs []AddProductInput, batch bool) (*models.InventoryRecord, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID != uuid.Nil {
			ids = append(ids, input.ProductID)
		}
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgCatalogUnavailable)
	}

	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}
	var existing types.InventoryEntries
	if record != nil {
		existing = record.ProductList
	}
	list, err := appendChecked(existing, inputs, products, batch)
	if err != nil {
		return nil, err
	}

	// The row is created only once the whole input is known to be valid.
	if record == nil {
		if record, err = s.repo.Ensure(ctx, vendorID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgSaveFailed)
		}
		if list, err = appendChecked(record.ProductList, inputs, products, batch); err != nil {
			return nil, err
		}
	}

	record.ProductList = list
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// appendChecked walks inputs in order and stops at the first offender. Each
// item is validated, then resolved against the catalog, then checked against
// existing entries and earlier items.
func appendChecked(existing types.InventoryEntries, inputs []AddProductInput, products map[uuid.UUID]models.CatalogProduct, batch bool) (types.InventoryEntries, error) {
	seen := make(map[uuid.UUID]struct{}, len(existing)+len(inputs))
	for _, entry := range existing {
		seen[entry.ProductID] = struct{}{}
	}
	list := existing.Clone()
	for _, input := range inputs {
		if batch && input.ProductID == uuid.Nil {
			return nil, unknownReference(input.Ref)
		}
		if err := validateAddInput(input); err != nil {
			return nil, err
		}
		if _, ok := products[input.ProductID]; !ok {
			return nil, invalidReference(input.ProductID, batch)
		}
		if _, ok := seen[input.ProductID]; ok {
			return nil, duplicateEntry(input.ProductID, batch)
		}
		seen[input.ProductID] = struct{}{}
		list = append(list, newEntry(input))
	}
	return list, nil
}

// UpdateProduct applies the supplied overrides to one entry.
func (s *service) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input UpdateProductInput) (dto *EntryDTO, err error) {
	defer func() { s.metrics.ObserveMutation(opUpdateProduct, err) }()

	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one of price, stock or description is required")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	record, err := s.load(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	idx := record.ProductList.Index(productID)
	if idx < 0 {
		return nil, entryNotFound(productID)
	}

	list := record.ProductList.Clone()
	entry := &list[idx]
	if input.Price != nil {
		price := *input.Price
		entry.Price = &price
	}
	if input.Stock != nil {
		stock := *input.Stock
		entry.Stock = &stock
	}
	if input.Description != nil {
		entry.Description = normalizeDescription(input.Description)
	}

	record.ProductList = list
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	updated := entryToDTO(record.ProductList[idx])
	return &updated, nil
}

// RemoveProduct drops one entry and rewrites the record.
func (s *service) RemoveProduct(ctx context.Context, vendorID, productID uuid.UUID) (dto *RecordDTO, err error) {
	defer func() { s.metrics.ObserveMutation(opRemoveProduct, err) }()

	record, err := s.load(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	kept := record.ProductList.Without(productID)
	if len(kept) == len(record.ProductList) {
		return nil, entryNotFound(productID)
	}

	record.ProductList = kept
	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	return recordToDTO(record), nil
}

// Resolve returns the vendor's inventory merged with catalog defaults. Entries
// whose catalog product no longer exists are omitted; nothing is written.
func (s *service) Resolve(ctx context.Context, vendorID uuid.UUID) (*ResolvedInventory, error) {
	view := &ResolvedInventory{VendorID: vendorID, ProductList: []ResolvedEntry{}}

	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return view, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}

	joined, err := s.join(ctx, record)
	if err != nil {
		return nil, err
	}
	present, _ := partition(joined)
	view.ProductList = resolveEntries(present)
	return view, nil
}

// Overview counts the vendor's products by category and sub-category and
// prunes entries whose catalog product is gone.
func (s *service) Overview(ctx context.Context, vendorID uuid.UUID, category string) (CategoryOverview, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveOverview(time.Since(start)) }()

	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return CategoryOverview{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}

	joined, err := s.join(ctx, record)
	if err != nil {
		return nil, err
	}
	present, missing := partition(joined)
	overview := BuildOverview(presentProducts(present))

	if len(missing) > 0 {
		// the correction must survive the client hanging up
		s.heal(context.WithoutCancel(ctx), vendorID, missing)
	}
	return overview.Filter(category), nil
}

// ProductIDs lists the product references held in the vendor's record.
func (s *service) ProductIDs(ctx context.Context, vendorID uuid.UUID) ([]uuid.UUID, error) {
	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return []uuid.UUID{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}
	return record.ProductList.ProductIDs(), nil
}

// Reconcile prunes stale catalog references from one record and returns the
// number of removed entries. Unlike Overview it reports prune failures.
func (s *service) Reconcile(ctx context.Context, vendorID uuid.UUID) (int, error) {
	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}
	joined, err := s.join(ctx, record)
	if err != nil {
		return 0, err
	}
	_, missing := partition(joined)
	if len(missing) == 0 {
		return 0, nil
	}
	removed, err := s.repo.PruneProducts(ctx, vendorID, missing)
	if err != nil {
		s.metrics.IncPruneFailure()
		if errors.Is(err, ErrStaleRecord) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgConcurrentWrite)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "failed to prune stale inventory entries")
	}
	s.metrics.AddPruned(removed)
	return removed, nil
}

func (s *service) heal(ctx context.Context, vendorID uuid.UUID, missing []uuid.UUID) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"vendor_id":     vendorID.String(),
		"missing_count": len(missing),
	})
	removed, err := s.repo.PruneProducts(ctx, vendorID, missing)
	if err != nil {
		s.metrics.IncPruneFailure()
		s.logg.Error(ctx, "inventory self-heal failed", err)
		return
	}
	s.metrics.AddPruned(removed)
	s.logg.Info(s.logg.WithField(ctx, "removed", removed), "pruned stale inventory entries")
}

func (s *service) join(ctx context.Context, record *models.InventoryRecord) ([]joinedEntry, error) {
	products, err := s.catalog.FindByIDs(ctx, record.ProductList.ProductIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgCatalogUnavailable)
	}
	return joinCatalog(record.ProductList, products), nil
}

func (s *service) load(ctx context.Context, vendorID uuid.UUID) (*models.InventoryRecord, error) {
	record, err := s.repo.FindByVendor(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgInventoryNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgLoadFailed)
	}
	return record, nil
}

func (s *service) save(ctx context.Context, record *models.InventoryRecord) error {
	if err := s.repo.Save(ctx, record); err != nil {
		if errors.Is(err, ErrStaleRecord) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgConcurrentWrite)
		}
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, msgSaveFailed)
	}
	return nil
}

func validateAddInput(input AddProductInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative").
			WithDetails(map[string]any{"product": input.ProductID})
	}
	if input.Price != nil && input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative").
			WithDetails(map[string]any{"product": input.ProductID})
	}
	return nil
}

func newEntry(input AddProductInput) types.InventoryEntry {
	stock := input.Stock
	entry := types.InventoryEntry{
		ProductID: input.ProductID,
		Stock:     &stock,
	}
	if input.Price != nil {
		price := *input.Price
		entry.Price = &price
	}
	entry.Description = normalizeDescription(input.Description)
	return entry
}

// normalizeDescription trims the value and maps blank input to no override.
func normalizeDescription(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func invalidReference(productID uuid.UUID, batch bool) error {
	msg := msgProductNotFound
	if batch {
		msg = fmt.Sprintf("Product %s not found", productID)
	}
	return pkgerrors.New(pkgerrors.CodeInvalidReference, msg).
		WithDetails(map[string]any{"product": productID})
}

func unknownReference(ref string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidReference, fmt.Sprintf("Product %s not found", ref)).
		WithDetails(map[string]any{"product": ref})
}

func duplicateEntry(productID uuid.UUID, batch bool) error {
	msg := msgProductExists
	if batch {
		msg = fmt.Sprintf("Product %s already exists in inventory", productID)
	}
	return pkgerrors.New(pkgerrors.CodeDuplicateEntry, msg).
		WithDetails(map[string]any{"product": productID})
}

func entryNotFound(productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, msgEntryNotFound).
		WithDetails(map[string]any{"product": productID})
}

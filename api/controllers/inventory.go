package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meradukaan/meradukaan-backend/api/middleware"
	"github.com/meradukaan/meradukaan-backend/api/responses"
	"github.com/meradukaan/meradukaan-backend/api/validators"
	"github.com/meradukaan/meradukaan-backend/internal/inventory"
	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
)

const maxCategoryLength = 100

type addProductRequest struct {
	Product     string           `json:"product"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock" validate:"required,min=0"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type addProductsRequest struct {
	ProductList []addProductsItem `json:"productList" validate:"required,min=1,dive"`
}

type addProductsItem struct {
	ID          string           `json:"_id"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock" validate:"required,min=0"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type updateProductRequest struct {
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// InventoryAddProduct adds one catalog product to the caller's inventory.
func InventoryAddProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addProductRequest
		if err := validators.DecodeJSON(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.Product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidReference, err, "Product Id missing or invalid"))
			return
		}
		if err := validators.Struct(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddProduct(r.Context(), vendorID, inventory.AddProductInput{
			ProductID:   productID,
			Stock:       *payload.Stock,
			Price:       payload.Price,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, record, "Added")
	}
}

// InventoryAddProducts adds a batch of catalog products in one save.
func InventoryAddProducts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addProductsRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]inventory.AddProductInput, 0, len(payload.ProductList))
		for _, item := range payload.ProductList {
			// Unparseable ids go through as nil so the service reports the
			// first offender in list order.
			productID, parseErr := uuid.Parse(item.ID)
			if parseErr != nil {
				productID = uuid.Nil
			}
			inputs = append(inputs, inventory.AddProductInput{
				ProductID:   productID,
				Ref:         item.ID,
				Stock:       *item.Stock,
				Price:       item.Price,
				Description: item.Description,
			})
		}

		record, err := svc.AddMultipleProducts(r.Context(), vendorID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, record, "Products added to inventory")
	}
}

// InventoryUpdateProduct applies vendor overrides to one inventory entry.
func InventoryUpdateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.UpdateProduct(r.Context(), vendorID, productID, inventory.UpdateProductInput{
			Price:       payload.Price,
			Stock:       payload.Stock,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, entry, "Product updated successfully")
	}
}

// InventoryRemoveProduct drops one entry from the caller's inventory.
func InventoryRemoveProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveProduct(r.Context(), vendorID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, record, "Product removed from inventory")
	}
}

// InventoryProductIDs lists the product ids in the caller's inventory.
func InventoryProductIDs(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := svc.ProductIDs(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg := "Found"
		if len(ids) == 0 {
			msg = "No inventory found"
		}
		responses.WriteSuccess(w, http.StatusOK, ids, msg)
	}
}

// InventoryOverview returns category counts for the caller's dashboard.
func InventoryOverview(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := vendorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := validators.SanitizeString(r.URL.Query().Get("category"), maxCategoryLength)

		overview, err := svc.Overview(r.Context(), vendorID, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, overview, "Inventory overview fetched and missing products removed")
	}
}

// InventoryByVendor returns the resolved inventory of any vendor.
func InventoryByVendor(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		vendorID, err := uuid.Parse(chi.URLParam(r, "vendorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Vendor Id missing"))
			return
		}

		view, err := svc.Resolve(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(view.ProductList) == 0 {
			responses.WriteSuccess(w, http.StatusOK, []inventory.ResolvedEntry{}, "Inventory empty")
			return
		}
		responses.WriteSuccess(w, http.StatusOK, view, "Inventory fetched")
	}
}

func vendorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.VendorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "vendor context missing")
	}
	vendorID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid vendor id")
	}
	return vendorID, nil
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := validators.ParseUUID(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Product Id missing")
	}
	return id, nil
}

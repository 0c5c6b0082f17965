package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meradukaan/meradukaan-backend/api/controllers"
	"github.com/meradukaan/meradukaan-backend/api/middleware"
	"github.com/meradukaan/meradukaan-backend/internal/inventory"
	"github.com/meradukaan/meradukaan-backend/pkg/config"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	pkgredis "github.com/meradukaan/meradukaan-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	inventoryService inventory.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.VendorContext(logg))
			r.Use(middleware.Idempotency(idempotencyStore, cfg.Inventory.IdempotencyTTL, logg))

			r.Post("/product", controllers.InventoryAddProduct(inventoryService, logg))
			r.Post("/products", controllers.InventoryAddProducts(inventoryService, logg))
			r.Get("/products", controllers.InventoryProductIDs(inventoryService, logg))
			r.Patch("/product/{productId}", controllers.InventoryUpdateProduct(inventoryService, logg))
			r.Delete("/product/{productId}", controllers.InventoryRemoveProduct(inventoryService, logg))
			r.Get("/overview", controllers.InventoryOverview(inventoryService, logg))
		})

		// Public storefront read; static segments above take precedence.
		r.Get("/{vendorId}", controllers.InventoryByVendor(inventoryService, logg))
	})

	return r
}

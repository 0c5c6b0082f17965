package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meradukaan/meradukaan-backend/internal/inventory"
	pkgAuth "github.com/meradukaan/meradukaan-backend/pkg/auth"
	"github.com/meradukaan/meradukaan-backend/pkg/config"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubInventoryService struct {
	resolved   uuid.UUID
	idsCalled  bool
	overviewOf uuid.UUID
}

func (s *stubInventoryService) AddProduct(context.Context, uuid.UUID, inventory.AddProductInput) (*inventory.RecordDTO, error) {
	return &inventory.RecordDTO{}, nil
}

func (s *stubInventoryService) AddMultipleProducts(context.Context, uuid.UUID, []inventory.AddProductInput) (*inventory.RecordDTO, error) {
	return &inventory.RecordDTO{}, nil
}

func (s *stubInventoryService) UpdateProduct(context.Context, uuid.UUID, uuid.UUID, inventory.UpdateProductInput) (*inventory.EntryDTO, error) {
	return &inventory.EntryDTO{}, nil
}

func (s *stubInventoryService) RemoveProduct(context.Context, uuid.UUID, uuid.UUID) (*inventory.RecordDTO, error) {
	return &inventory.RecordDTO{}, nil
}

func (s *stubInventoryService) Resolve(_ context.Context, vendorID uuid.UUID) (*inventory.ResolvedInventory, error) {
	s.resolved = vendorID
	return &inventory.ResolvedInventory{VendorID: vendorID, ProductList: []inventory.ResolvedEntry{}}, nil
}

func (s *stubInventoryService) Overview(_ context.Context, vendorID uuid.UUID, _ string) (inventory.CategoryOverview, error) {
	s.overviewOf = vendorID
	return inventory.CategoryOverview{}, nil
}

func (s *stubInventoryService) ProductIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	s.idsCalled = true
	return []uuid.UUID{}, nil
}

func (s *stubInventoryService) Reconcile(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, svc inventory.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	metrics.NewInventoryMetrics(registry).ObserveMutation("add", nil)
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, nil, registry, svc)
}

func buildToken(t *testing.T, cfg *config.Config, subject uuid.UUID, role pkgAuth.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{SubjectID: subject, Role: role})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestVendorRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), &stubInventoryService{})
	for _, target := range []string{"/api/v1/inventory/products", "/api/v1/inventory/overview"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", target, resp.Code)
		}
	}
}

func TestVendorRoutesRequireVendorRole(t *testing.T) {
	cfg := testConfig()
	svc := &stubInventoryService{}
	router := newTestRouter(cfg, svc)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/products", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New(), pkgAuth.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	vendor := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/products", nil)
	vendor.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New(), pkgAuth.RoleVendor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, vendor)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vendor got %d", resp.Code)
	}
	if !svc.idsCalled {
		t.Fatalf("expected product ids handler to run")
	}
}

func TestOverviewIsNotShadowedByVendorRead(t *testing.T) {
	cfg := testConfig()
	svc := &stubInventoryService{}
	router := newTestRouter(cfg, svc)
	vendorID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/overview?category=Dairy", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, vendorID, pkgAuth.RoleVendor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.overviewOf != vendorID {
		t.Fatalf("expected overview for %s got %s", vendorID, svc.overviewOf)
	}
	if svc.resolved != uuid.Nil {
		t.Fatalf("vendor read should not run for /overview")
	}
}

func TestPublicVendorReadNeedsNoToken(t *testing.T) {
	svc := &stubInventoryService{}
	router := newTestRouter(testConfig(), svc)
	vendorID := uuid.New()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+vendorID.String(), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.resolved != vendorID {
		t.Fatalf("expected resolve for %s got %s", vendorID, svc.resolved)
	}
	if !strings.Contains(resp.Body.String(), "Inventory empty") {
		t.Fatalf("expected empty inventory message got %s", resp.Body.String())
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	router := newTestRouter(testConfig(), &stubInventoryService{})

	for _, target := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "inventory_mutations_total") {
		t.Fatalf("expected inventory metrics in scrape output")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(testConfig(), &stubInventoryService{})
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if got := resp.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("expected request id echo got %q", got)
	}
}

func TestCORSUsesConfiguredOrigins(t *testing.T) {
	cfg := testConfig()
	cfg.App.CORSOrigins = []string{"https://shop.example.com"}
	router := newTestRouter(cfg, &stubInventoryService{})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/inventory/product", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	if got := preflight("https://shop.example.com").Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected configured origin to be allowed, got %q", got)
	}
	if got := preflight("http://localhost:3000").Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("default origins must not apply once configured, got %q", got)
	}
}

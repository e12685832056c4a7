package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bombom/internal/domain"
	"bombom/internal/http/handlers"
	"bombom/internal/infra"
	"bombom/internal/middleware"
	"bombom/internal/orders"
	"bombom/internal/prompt"
	"bombom/internal/providers/image"
	"bombom/internal/storage"
)

type fixedGenerator struct{}

func (fixedGenerator) Generate(ctx context.Context, req image.Request) (*image.CanonicalImage, error) {
	return &image.CanonicalImage{
		DataURL: image.EncodeDataURL("image/png", []byte("render")),
		MIME:    "image/png",
	}, nil
}

func (fixedGenerator) Name() string { return "fixed" }

type emptyOrderRepo struct{}

func (emptyOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	saved := *order
	saved.ID = "o1"
	saved.Status = domain.OrderStatusSubmitted
	return &saved, nil
}

func (emptyOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (emptyOrderRepo) List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	return nil, nil
}

func (emptyOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

type emptyCatalogRepo struct{}

func (emptyCatalogRepo) ListActive(ctx context.Context) (*domain.CatalogOptions, error) {
	return &domain.CatalogOptions{}, nil
}

func (emptyCatalogRepo) ListGroup(ctx context.Context, group domain.OptionGroup, includeInactive bool) ([]domain.CatalogOption, error) {
	return nil, nil
}

func (emptyCatalogRepo) CreateOption(ctx context.Context, group domain.OptionGroup, opt *domain.CatalogOption) (*domain.CatalogOption, error) {
	created := *opt
	created.ID = "opt-1"
	return &created, nil
}

func (emptyCatalogRepo) UpdateOption(ctx context.Context, group domain.OptionGroup, opt *domain.CatalogOption) (*domain.CatalogOption, error) {
	return nil, domain.ErrNotFound
}

func (emptyCatalogRepo) DeleteOption(ctx context.Context, group domain.OptionGroup, id string) error {
	return domain.ErrNotFound
}

const testSecret = "router-test-secret"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	repo := emptyOrderRepo{}
	app := &handlers.App{
		Config: &infra.Config{
			JWTSecret:          testSecret,
			CORSAllowedOrigins: []string{"*"},
			DefaultLocale:      "pt",
			RateLimitPerMin:    1000,
			GanachePercent:     70,
			JamPercent:         30,
		},
		Logger:    zerolog.Nop(),
		Builder:   prompt.NewBuilder(prompt.DefaultLayout()),
		Generator: fixedGenerator{},
		Relay:     orders.NewRelay(repo, store),
		Orders:    repo,
		Catalog:   emptyCatalogRepo{},
		Store:     store,
	}
	return NewRouter(app, nil)
}

func TestRouterPreflightGenerate(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "https://loja.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight missing Allow-Origin header")
	}
}

func TestRouterGenerateRejectsGet(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRouterAdminRejectsCustomerRole(t *testing.T) {
	router := newRouter(t)

	token, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		Sub:  "user-1",
		Role: "customer",
		Exp:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRouterAdminAcceptsStaffToken(t *testing.T) {
	router := newRouter(t)

	token, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		Sub:  "staff-1",
		Role: middleware.RoleStaff,
		Exp:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRouterHealth(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.Issuer = "fleetdesk-test"
	cfg.JWT.ExpirationMinutes = 60

	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, metrics.NewHTTPMetrics(), Services{}, nil)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/live, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-FleetDesk-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}

func TestRouterRejectsUnauthenticatedAPI(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/v1/companies",
		"/api/v1/users",
		"/api/v1/models/grouped",
	}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 from %s without a token, got %d", path, rec.Code)
		}
	}
}

func TestRouterPublicRoutesSkipAuth(t *testing.T) {
	router := newTestRouter(t)

	// Nil services answer 500, not 401: the route is reachable without a token.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/config/acme", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from unwired public config, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil))
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("login route must not require a token")
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndServe(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe(http.MethodGet, "/api/vehicles", 200, 35*time.Millisecond)
	m.Observe(http.MethodGet, "/api/vehicles", 200, 12*time.Millisecond)
	m.Observe(http.MethodPost, "", 500, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/vehicles",status="200"} 2`) {
		t.Fatalf("missing request counter:\n%s", body)
	}
	if !strings.Contains(body, `route="unknown"`) {
		t.Fatalf("expected empty route normalized to unknown:\n%s", body)
	}
	if !strings.Contains(body, "http_request_duration_seconds_bucket") {
		t.Fatalf("missing duration histogram:\n%s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/x", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}

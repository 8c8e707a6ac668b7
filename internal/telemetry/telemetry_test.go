package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/metric/global"
)

func TestMiddlewarePassesThrough(t *testing.T) {
	m := NewMetrics(global.Meter("test"))

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/articles/{articleID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles/1", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusAccepted)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body: got %q, want ok", rec.Body.String())
	}
}

func TestExporterServesMetrics(t *testing.T) {
	exporter, err := NewExporter()
	if err != nil {
		t.Fatalf("NewExporter: %v", err)
	}

	m := NewMetrics(global.Meter("test"))
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
}

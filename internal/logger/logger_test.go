package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddlewareCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core).Sugar()

	h := middleware.RequestID(Middleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Infow("handled")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusTeapot)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	for _, e := range entries {
		if _, ok := e.ContextMap()["request_id"]; !ok {
			t.Errorf("entry %q has no request_id", e.Message)
		}
	}

	access := entries[1].ContextMap()
	if access["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field: got %v", access["status"])
	}
	if access["path"] != "/articles" {
		t.Errorf("path field: got %v", access["path"])
	}
}

func TestFromContextDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil")
	}
}

func TestNewLevel(t *testing.T) {
	l, atom, err := New(zapcore.WarnLevel, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Sync() // nolint

	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}

	atom.SetLevel(zapcore.DebugLevel)
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug disabled after SetLevel")
	}
}

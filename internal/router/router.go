package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/article"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/store"
	"github.com/SergeyParamoshkin/articles/internal/telemetry"
)

type Options struct {
	Store  store.Store
	Logger *zap.SugaredLogger
	Meter  metric.Meter
}

// New wires the public API: /ping and the articles resource. Any other
// method/path combination answers 405.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	r.NotFound(article.NotAllowed)
	r.MethodNotAllowed(article.NotAllowed)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(telemetry.NewMetrics(opts.Meter).Middleware)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte("pong")); err != nil {
			logger.FromContext(r.Context()).Errorw("ping", "error", err)
		}
	})

	r.Route("/articles", article.NewHandler(opts.Store).RegisterRoutes)

	return r
}

// NewDiag serves operational endpoints on a separate listener.
func NewDiag(metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/metrics", metrics.ServeHTTP)

	return r
}

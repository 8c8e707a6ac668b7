//
// ARTICLES
// ========
// A HTTP REST service over a single "articles" collection kept as one JSON
// document, read whole and rewritten whole on every change.
//
// Pass -routes to print the generated route docs: `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run . -config config.example.yaml
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"title":"A","content":"B"}' http://localhost:3333/articles
// {"id":1,"title":"A","content":"B"}
//
// $ curl http://localhost:3333/articles
// [{"id":1,"title":"A","content":"B"}]
//
// $ curl http://localhost:3333/articles/1
// {"id":1,"title":"A","content":"B"}
//
// $ curl -X PUT -d '{"title":"A","content":"C","tags":["go"]}' http://localhost:3333/articles/1
// {"id":1,"title":"A","content":"C","tags":["go"]}
//
// $ curl -X DELETE http://localhost:3333/articles/1
// (204, empty body)
//
// $ curl http://localhost:3333/articles/1
// {"error":"Article not found"}
//
// Metrics are served on the diag listener: curl http://localhost:9999/metrics
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/metric/global"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/config"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/router"
	"github.com/SergeyParamoshkin/articles/internal/sqlstore"
	"github.com/SergeyParamoshkin/articles/internal/store"
	"github.com/SergeyParamoshkin/articles/internal/telemetry"
)

const ServiceName = "articles"

// nolint
func main() {
	var (
		configPath = flag.String("config", "", "config file (default: config.yaml in . or ./config)")
		routes     = flag.Bool("routes", false, "Generate router documentation")
		addr       = flag.String("addr", "", "application address, overrides server.addr")
		diagAddr   = flag.String("diag_addr", "", "diag address, overrides server.diag_addr")
	)

	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *diagAddr != "" {
		cfg.Server.DiagAddr = *diagAddr
	}

	level, _ := config.ParseLevel(cfg.Log.Level) // validated by config.Load
	zl, atom, err := logger.New(level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() // flushes buffer, if any
	sugar := zl.Sugar().With("service", ServiceName)

	cfg.Watch(func(next *config.Config) {
		lvl, err := config.ParseLevel(next.Log.Level)
		if err != nil {
			return
		}
		atom.SetLevel(lvl)
		sugar.Infow("config reloaded", "file", next.File(), "log_level", lvl.String())
	}, func(err error) {
		sugar.Errorw("config reload failed, keeping previous config", "error", err)
	})

	// Passing -routes to the program will generate docs for the router
	// definition. The docs never touch the configured store.
	if *routes {
		fmt.Println(routesDoc(sugar))

		return
	}

	exporter, err := telemetry.NewExporter()
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}

	s, closer, err := openStore(cfg.Store)
	if err != nil {
		sugar.Fatalw("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer closer.Close()

	r := router.New(router.Options{
		Store:  s,
		Logger: sugar,
		Meter:  global.Meter(ServiceName),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diag := &http.Server{
		Addr:              cfg.Server.DiagAddr,
		Handler:           router.NewDiag(exporter),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	diagDone := make(chan struct{})
	go func() {
		defer close(diagDone)
		sugar.Infow("diag listening", "addr", diag.Addr)
		if err := runServer(ctx, diag, cfg.Server.ShutdownTimeout); err != nil {
			sugar.Errorw(err.Error())
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	sugar.Infow("listening", "addr", srv.Addr, "store", cfg.Store.Driver)
	if err := runServer(ctx, srv, cfg.Server.ShutdownTimeout); err != nil {
		sugar.Errorw(err.Error())
	}

	// The main listener may fail on its own; take diag down with it.
	stop()
	<-diagDone
}

// runServer serves until ctx is done, then shuts srv down gracefully.
func runServer(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// routesDoc renders the route docs from a router over an in-memory store.
func routesDoc(l *zap.SugaredLogger) string {
	r := router.New(router.Options{
		Store:  store.NewMemoryStore(),
		Logger: l,
		Meter:  global.Meter(ServiceName),
	})

	return docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/SergeyParamoshkin/articles",
		Intro:       "Generated route docs for the articles service.",
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openStore(cfg config.StoreConfig) (store.Store, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nopCloser{}, nil

	case config.DriverSQLite, config.DriverPostgres:
		s, err := sqlstore.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Initialize(context.Background(), cfg.CreateIfMissing); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, s, nil

	default:
		s := store.NewFileStore(cfg.Path)
		if cfg.CreateIfMissing {
			if err := s.EnsureExists(); err != nil {
				return nil, nil, err
			}
		}
		return s, nopCloser{}, nil
	}
}

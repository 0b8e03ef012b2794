package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/regrow/internal/adapters/http/api"
	"github.com/okian/regrow/internal/adapters/http/swagger"
	"github.com/okian/regrow/internal/adapters/mq/writeback"
	"github.com/okian/regrow/internal/adapters/repository"
	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/config"
	"github.com/okian/regrow/internal/domain/dedupe"
	"github.com/okian/regrow/pkg/logger"
	"github.com/okian/regrow/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 10 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	a, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", logger.Error(err))
		os.Exit(1)
	}

	if cfg.MetricsEnabled {
		go startSystemMetricsUpdater(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	a.shutdown(shutdownCtx)

	log.Info(shutdownCtx, "server stopped")
}

// application is the wired process: store, write-back worker, controller
// and the HTTP handler in front of them.
type application struct {
	store      repository.Store
	writer     *writeback.Writer
	controller *service.Controller
	handler    http.Handler
	log        logger.Logger
}

func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := repository.Open(ctx, cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	repo := repository.NewStateRepository(store,
		repository.WithKey(cfg.StateKey),
		repository.WithLogger(log.Named("repository")),
	)

	writer := writeback.New(repo,
		writeback.WithQueueSize(cfg.SaveQueueSize),
		writeback.WithLogger(log.Named("writeback")),
	)
	// Saves outlive the signal context so the final flush still lands.
	writer.Start(context.WithoutCancel(ctx))

	ctrl := service.New(
		service.WithLogger(log.Named("controller")),
		service.WithLoader(repo),
		service.WithPersister(writer),
		service.WithLocation(loc),
		service.WithDeduper(dedupe.New(dedupe.WithMaxSize(cfg.DedupeSize))),
	)
	view := ctrl.Load(ctx)
	log.Info(ctx, "protocol ready",
		logger.String("store", cfg.StoreDriver),
		logger.String("today", view.Today.String()),
		logger.Int("day", view.Day.DayNumber))

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(ctrl).Register(ctx, mux)

	return &application{
		store:      store,
		writer:     writer,
		controller: ctrl,
		handler:    mux,
		log:        log,
	}, nil
}

// shutdown stops countdowns first so no mutation races the final flush,
// then drains pending saves and closes the store.
func (a *application) shutdown(ctx context.Context) {
	a.controller.Close()
	if err := a.writer.Close(ctx); err != nil {
		a.log.Error(ctx, "write-back did not drain", logger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.log.Error(ctx, "store close failed", logger.Error(err))
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

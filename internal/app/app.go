// Package app wires the application together: configuration, logging,
// telemetry, the pipeline runner, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"bearcart/internal/config"
	"bearcart/internal/infrastructure"
	custommw "bearcart/internal/middleware"
	"bearcart/internal/pipeline"
	"bearcart/internal/services"
	handlers "bearcart/internal/transport/http"
	"bearcart/pkg/contracts"
)

const serviceName = "bearcart"

// Application is the main application container.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Router    *chi.Mux
	Server    *http.Server

	DataService   *services.DataService
	HealthService *services.HealthService
}

// NewApplication creates the application with all dependencies wired.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("service", serviceName),
		slog.String("version", contracts.Version),
		slog.String("raw_dir", cfg.Paths.RawDir),
		slog.String("processed_dir", cfg.Paths.ProcessedDir))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	telemetry, err := infrastructure.NewTelemetry(serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	runner := pipeline.NewRunner(cfg, logger, telemetry)
	dataService := services.NewDataService(runner, logger)
	healthService := services.NewHealthService(dataService)

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		Telemetry:     telemetry,
		DataService:   dataService,
		HealthService: healthService,
	}
	a.setupRouter()

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Metrics(a.Telemetry))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))
	r.Use(custommw.CORS(custommw.CORSConfig{AllowedOrigins: a.Config.Server.AllowedOrigins}))

	rateLimiter := custommw.NewRateLimiter(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst, a.Logger)
	r.Use(rateLimiter.Handler)

	metricsHandler := handlers.NewMetricsHandler(a.DataService, a.Logger)
	reportHandler := handlers.NewReportHandler(a.DataService, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.HealthService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)
		r.Mount("/metrics", metricsHandler.Routes())
		r.Get("/report", reportHandler.GetReport)
		r.Get("/runs/last", reportHandler.GetLastRun)
		r.Post("/refresh", reportHandler.Refresh)
	})

	// Prometheus scrape endpoint, outside the /api surface.
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(a.Telemetry.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// Run performs the initial pipeline run and serves HTTP until the context is
// cancelled or a shutdown signal arrives. A failed initial run does not stop
// the server; the API reports data as not ready and a later refresh can
// recover once the inputs are fixed.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.DataService.Refresh(ctx); err != nil {
		a.Logger.Error("initial pipeline run failed",
			slog.String("error", err.Error()))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
		infrastructure.CloseLogFile()
		return nil
	})

	return g.Wait()
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lodestarhq/lodestar/internal/adapter/clearlead"
	lshttp "github.com/lodestarhq/lodestar/internal/adapter/http"
	lsnats "github.com/lodestarhq/lodestar/internal/adapter/nats"
	"github.com/lodestarhq/lodestar/internal/adapter/otel"
	"github.com/lodestarhq/lodestar/internal/adapter/postgres"
	"github.com/lodestarhq/lodestar/internal/adapter/ristretto"
	"github.com/lodestarhq/lodestar/internal/adapter/ws"
	"github.com/lodestarhq/lodestar/internal/config"
	"github.com/lodestarhq/lodestar/internal/logger"
	"github.com/lodestarhq/lodestar/internal/middleware"
	"github.com/lodestarhq/lodestar/internal/resilience"
	"github.com/lodestarhq/lodestar/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"breaker_max_failures", cfg.Breaker.MaxFailures,
	)

	ctx := context.Background()

	shutdownTracer := otel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownTracer(ctx) }()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := lsnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	l1, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer l1.Close()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)

	companySvc := service.NewCompanyService(store)
	contactSvc := service.NewContactService(store)
	dealSvc := service.NewDealService(store, queue, hub, metrics)
	settingsSvc := service.NewSettingsService(store)
	authSvc := service.NewAuthService(store, &cfg.Auth)

	if cfg.Auth.Enabled {
		if err := authSvc.SeedDefaultAdmin(ctx); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	// One breaker guards the enrichment provider for the whole process.
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	if err := otel.RegisterBreakerState(func() string { return breaker.State().String() }); err != nil {
		return fmt.Errorf("register breaker gauge: %w", err)
	}
	provider := clearlead.NewClient(cfg.ClearLead.URL, cfg.ClearLead.APIKey, cfg.ClearLead.Timeout)
	enrichSvc := service.NewEnrichmentService(store, provider, breaker, service.EnrichmentOptions{
		Queue:         queue,
		Hub:           hub,
		Metrics:       metrics,
		Cache:         l1,
		StatusTTL:     cfg.Cache.StatusTTL,
		MaxConcurrent: cfg.Enrichment.MaxConcurrent,
	})

	// --- HTTP ---

	handlers := &lshttp.Handlers{
		Companies:            companySvc,
		Contacts:             contactSvc,
		Deals:                dealSvc,
		Enrichment:           enrichSvc,
		Settings:             settingsSvc,
		Auth:                 authSvc,
		Hub:                  hub,
		EnrichmentRunTimeout: cfg.Enrichment.RunTimeout,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()

	r.Use(lshttp.CORS(cfg.Server.CORSOrigin))
	r.Use(lshttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(lshttp.Logger)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(limiter.Handler)
	r.Use(middleware.Auth(authSvc, cfg.Auth.Enabled))

	r.Get("/health", healthHandler(queue, enrichSvc.BreakerState))
	r.Get("/ws", hub.HandleWS)

	// API requests get a deadline; /ws stays outside so connections can
	// outlive it.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		lshttp.MountRoutes(r, handlers)
	})

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler returns an http.HandlerFunc that reports service health.
func healthHandler(queue *lsnats.Queue, breakerState func() resilience.State) http.HandlerFunc {
	type healthStatus struct {
		Status  string `json:"status"`
		NATS    string `json:"nats"`
		Breaker string `json:"enrichment_breaker"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		natsStatus := "connected"
		if !queue.IsConnected() {
			natsStatus = "disconnected"
		}
		status := healthStatus{
			Status:  "ok",
			NATS:    natsStatus,
			Breaker: breakerState().String(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}

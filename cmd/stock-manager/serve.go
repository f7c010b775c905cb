package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/handlers"
	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	"github.com/aaravmahajanofficial/stock-manager/internal/config"
	"github.com/aaravmahajanofficial/stock-manager/internal/health"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/aaravmahajanofficial/stock-manager/internal/telemetry"
	"github.com/aaravmahajanofficial/stock-manager/pkg/sendgrid"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.MustLoad(configPath))
	},
}

func serve(cfg *config.Config) error {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Otel, health.Version)
	if err != nil {
		return err
	}

	defer flushTraces(tp)

	// Database setup
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := repository.OpenPostgres(connectCtx, &cfg.Database)
	cancel()
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		return err
	}

	repos := repository.New(db)

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup; without it the API runs uncached and unlimited
	appCache := cache.NewNoopCache()
	var limiter middleware.RateLimiter

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("⚠️ Redis unavailable, running without cache and rate limiting", slog.String("error", err.Error()))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
			} else {
				slog.Info("✅ Redis connection closed")
			}
		}()

		appCache = cache.NewRedisCache(redisClient, &cfg.Cache)
		limiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	}

	notifier := service.NewNoopLowStockNotifier()
	if cfg.SendGrid.AlertsEnabled() {
		email := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = service.NewEmailLowStockNotifier(email, cfg.SendGrid.AlertRecipient)
		slog.Info("Low-stock alerts enabled", slog.String("recipient", cfg.SendGrid.AlertRecipient))
	}

	productService := service.NewProductService(repos.Products, repos.Categories, appCache, cfg.Cache.DefaultTTL)
	categoryService := service.NewCategoryService(repos.Categories, appCache, cfg.Cache.DefaultTTL)
	ledgerService := service.NewLedgerService(repos.Ledger, appCache, notifier, service.LedgerOptions{
		RejectOversell: cfg.Ledger.RejectOversell,
	})
	analyticsService := service.NewAnalyticsService(repos.Analytics, appCache, service.AnalyticsOptions{
		DashboardTTL: cfg.Cache.DashboardTTL,
	})

	healthCheck, err := health.NewHealthHandler(cfg)
	if err != nil {
		return err
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	handler := newRouter(routerDeps{
		Version:   health.Version,
		Products:  handlers.NewProductHandler(productService),
		Category:  handlers.NewCategoryHandler(categoryService),
		Ledger:    handlers.NewLedgerHandler(ledgerService, time.Local),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, time.Local),
		Limiter:   limiter,
		Health:    healthCheck.Handler(),
	})

	// Setup http server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	return run(server, done, tp)
}

type flusher interface {
	Shutdown(ctx context.Context) error
}

func flushTraces(tp flusher) {
	if err := tp.Shutdown(context.Background()); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}

// run serves until a signal arrives on done or the listener fails. Pending
// spans are flushed on either path.
func run(server *http.Server, done <-chan os.Signal, tp flusher) error {
	defer flushTraces(tp)

	slog.Info("🚀 Server is starting...", slog.String("address", server.Addr))

	serveErr := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
			serveErr <- err
		}
	}()

	select {
	case <-done:
		slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")
	case err := <-serveErr:
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	return nil
}

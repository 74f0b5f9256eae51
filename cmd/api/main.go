package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/legendary-prints/api/internal/handlers"
	"github.com/legendary-prints/api/internal/platform/config"
	"github.com/legendary-prints/api/internal/platform/observability"
	"github.com/legendary-prints/api/internal/services"
	"github.com/legendary-prints/api/internal/storefront"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	storefrontClient, err := storefront.NewClient(cfg.Storefront, logger.Named("storefront"))
	if err != nil {
		logger.Fatal("failed to initialise storefront client", zap.Error(err))
	}

	pricingEngine := services.NewPricingEngine(services.PricingEngineDeps{})

	catalogLogger := logger.Named("catalog")
	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Gateway:         storefrontClient,
		CacheTTL:        cfg.Catalog.CacheTTL,
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		Logger:          zapEventLogger(catalogLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}
	catalogHandlers := handlers.NewCatalogHandlers(catalogService)

	cartLogger := logger.Named("cart")
	cartService, err := services.NewCartService(services.CartServiceDeps{
		Gateway: storefrontClient,
		Pricing: pricingEngine,
		Logger:  zapEventLogger(cartLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}
	cartHandlers := handlers.NewCartHandlers(cartService)

	pricingHandlers := handlers.NewPricingHandlers(pricingEngine)

	healthHandlers := handlers.NewHealthHandlers()

	opts := []handlers.Option{
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithProductRoutes(catalogHandlers.ProductRoutes),
		handlers.WithCollectionRoutes(catalogHandlers.CollectionRoutes),
		handlers.WithPricingRoutes(pricingHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
	}

	if cfg.Features.EnableManualOrders {
		orderLogger := logger.Named("orders")
		orderService, err := services.NewOrderService(services.OrderServiceDeps{
			Pricing: pricingEngine,
			Logger:  zapEventLogger(orderLogger),
		})
		if err != nil {
			logger.Fatal("failed to initialise order service", zap.Error(err))
		}
		orderHandlers := handlers.NewOrderHandlers(orderService)
		opts = append(opts, handlers.WithOrderRoutes(orderHandlers.Routes))
	}

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("legendary-prints api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func zapEventLogger(logger *zap.Logger) func(ctx context.Context, event string, fields map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Debug(event, zFields...)
	}
}

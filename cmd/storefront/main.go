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

	"github.com/couplestry/storefront/internal/catalog"
	"github.com/couplestry/storefront/internal/checkout"
	"github.com/couplestry/storefront/internal/commerce"
	"github.com/couplestry/storefront/internal/domain"
	"github.com/couplestry/storefront/internal/handlers"
	"github.com/couplestry/storefront/internal/platform/config"
	"github.com/couplestry/storefront/internal/platform/observability"
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

	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			logger.Fatal("configuration is incomplete", zap.Strings("fields", verr.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	client, err := commerce.NewClient(cfg.Commerce.BaseURL,
		commerce.WithHTTPClient(&http.Client{Timeout: cfg.Commerce.Timeout}),
	)
	if err != nil {
		logger.Fatal("failed to initialise commerce client", zap.Error(err))
	}

	var fallbackCategories []domain.Category
	if cfg.Catalog.FallbackFile != "" {
		fallbackCategories, err = catalog.LoadFallbackCategories(cfg.Catalog.FallbackFile)
		if err != nil {
			logger.Warn("failed to load category fallback file", zap.Error(err), zap.String("path", cfg.Catalog.FallbackFile))
		}
	}

	catalogHandlers, err := handlers.NewCatalogHandlers(client, client, fallbackCategories)
	if err != nil {
		logger.Fatal("failed to initialise catalog handlers", zap.Error(err))
	}

	checkoutService, err := checkout.NewService(checkout.ServiceDeps{
		Orders:    client,
		Payments:  client,
		ReturnURL: cfg.Checkout.PaymentReturnURL,
		Clock:     time.Now,
		Logger:    observability.EventLogger(logger.Named("checkout")),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	cartHandlers := handlers.NewCartHandlers(client, cfg.Commerce.LoginURL)
	checkoutHandlers, err := handlers.NewCheckoutHandlers(checkoutService, client, cfg.Commerce.LoginURL)
	if err != nil {
		logger.Fatal("failed to initialise checkout handlers", zap.Error(err))
	}
	orderHandlers := handlers.NewOrderHandlers(client, cfg.Commerce.LoginURL)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithSessionMiddlewares(handlers.RequireSession(cfg.Commerce.LoginURL)),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithCheckoutRoutes(checkoutHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
	)

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
		serverLogger.Info("storefront api listening")
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

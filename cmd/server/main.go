package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Lixing-Zhang/product-catalog/internal/config"
	"github.com/Lixing-Zhang/product-catalog/internal/database"
	"github.com/Lixing-Zhang/product-catalog/internal/handlers"
	"github.com/Lixing-Zhang/product-catalog/internal/metrics"
	"github.com/Lixing-Zhang/product-catalog/internal/middleware"
	"github.com/Lixing-Zhang/product-catalog/internal/repository"
	"github.com/Lixing-Zhang/product-catalog/internal/router"
	"github.com/Lixing-Zhang/product-catalog/internal/service"
	"github.com/Lixing-Zhang/product-catalog/internal/validation"
	"github.com/Lixing-Zhang/product-catalog/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting product catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store.Backend,
		"auth_enabled", cfg.Auth.Enabled,
		"log_level", cfg.LogLevel,
	)
	if cfg.Auth.Enabled && cfg.Auth.APIKey == config.DefaultAPIKey {
		log.Warn("API_KEY is not set, using the built-in default key")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

// run connects the store, serves until a shutdown signal and releases the
// store connection on the way out.
func run(cfg *config.Config, log *slog.Logger) error {
	// Connect to the store before accepting traffic
	var productRepo repository.ProductRepository
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, err := database.Connect(context.Background(), cfg.Store.Mongo)
		if err != nil {
			return fmt.Errorf("connecting to mongodb: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Error("failed to disconnect from mongodb", "error", err)
			}
		}()
		log.Info("connected to mongodb",
			"database", cfg.Store.Mongo.Database,
			"collection", cfg.Store.Mongo.Collection,
		)
		productRepo = repository.NewMongoProductRepository(database.Collection(client, cfg.Store.Mongo))
	case config.BackendMemory:
		productRepo = repository.NewInMemoryProductRepository(repository.SampleProducts()...)
		log.Info("using in-memory product store")
	}

	// Initialize metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(registry)
		productRepo = repository.NewInstrumentedRepository(productRepo, m)
	}

	// Initialize services
	productService := service.NewProductService(productRepo, validation.New(validation.Options{
		RequireCategory: cfg.Products.RequireCategory,
		DefaultCategory: cfg.Products.DefaultCategory,
		StrictPrice:     cfg.Products.StrictPrice,
	}))

	var checker middleware.CredentialChecker
	if cfg.Auth.Enabled {
		checker = middleware.NewStaticKeyChecker(cfg.Auth.APIKey)
	}

	handler, err := router.New(router.Options{
		Logger:  log,
		Service: productService,
		Metrics: m,
		Checker: checker,
		Responses: handlers.ResponseOptions{
			ListEnvelope:       cfg.Products.ListEnvelope,
			ExposeErrorDetails: cfg.Server.ExposeErrorDetails,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	// Create HTTP server
	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

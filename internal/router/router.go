package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/product-catalog/internal/handlers"
	"github.com/Lixing-Zhang/product-catalog/internal/metrics"
	"github.com/Lixing-Zhang/product-catalog/internal/middleware"
	"github.com/Lixing-Zhang/product-catalog/internal/service"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Options holds everything the router wires together
type Options struct {
	Logger  *slog.Logger
	Service *service.ProductService

	// Metrics enables request instrumentation and /metrics when non-nil
	Metrics *metrics.Metrics

	// Checker guards mutating endpoints when non-nil
	Checker middleware.CredentialChecker

	Responses      handlers.ResponseOptions
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// New builds the HTTP handler for the service
func New(opts Options) (http.Handler, error) {
	healthHandler := handlers.NewHealthHandler(opts.Service, opts.Logger, Version)
	productHandler := handlers.NewProductHandler(opts.Service, opts.Logger, opts.Responses)
	welcomeHandler, err := handlers.NewWelcomeHandler(opts.Checker != nil, opts.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(chimiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	// CORS configuration
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", welcomeHandler.ServeHTTP)
	r.Get("/health", healthHandler.ServeHTTP)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/{productId}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			if opts.Checker != nil {
				r.Use(middleware.APIKeyAuth(opts.Checker))
			}
			r.Post("/", productHandler.CreateProduct)
			r.Put("/{productId}", productHandler.ReplaceProduct)
			r.Patch("/{productId}", productHandler.PatchProduct)
			r.Delete("/{productId}", productHandler.DeleteProduct)
		})
	})

	return r, nil
}

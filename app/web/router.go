// Package web assembles the HTTP routes and middleware.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stockroom/inventory/app/categories"
	"github.com/stockroom/inventory/app/dashboard"
	"github.com/stockroom/inventory/app/orders"
	"github.com/stockroom/inventory/app/products"
	"github.com/stockroom/inventory/pkg/logger"
)

// Service is everything the handlers need; *stock.Service satisfies it.
type Service interface {
	categories.CategoryProvider
	products.ProductProvider
	orders.OrderProvider
	dashboard.Provider
}

type RouterOptions struct {
	Ping           Pinger
	Logger         *slog.Logger
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func NewRouter(svc Service, opts RouterOptions) http.Handler {
	log := logger.WithComponent(opts.Logger, "http")
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	categoryHandler := categories.NewCategoryHandler(svc)
	productHandler := products.NewProductHandler(svc)
	orderHandler := orders.NewOrderHandler(svc)
	dashboardHandler := dashboard.NewDashboardHandler(svc)
	healthHandler := NewHealthHandler(opts.Ping, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", categoryHandler.HandleGetAll)
		r.Post("/categories", categoryHandler.HandleCreate)
		r.Delete("/categories/{id}", categoryHandler.HandleDelete)

		r.Get("/products", productHandler.HandleGet)
		r.Post("/products", productHandler.HandleUpsert)
		r.Get("/products/{id}", productHandler.HandleGetProduct)
		r.Delete("/products/{id}", productHandler.HandleDelete)

		r.Get("/orders", orderHandler.HandleGetAll)
		r.Post("/orders", orderHandler.HandleIssue)

		r.Get("/alerts", dashboardHandler.HandleAlerts)
		r.Get("/dashboard", dashboardHandler.HandleSummary)
	})

	return r
}

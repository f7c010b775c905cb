package main

import (
	"net/http"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/handlers"
	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/aaravmahajanofficial/stock-manager/docs"
)

type routerDeps struct {
	Version   string
	Products  *handlers.ProductHandler
	Category  *handlers.CategoryHandler
	Ledger    *handlers.LedgerHandler
	Analytics *handlers.AnalyticsHandler
	// Limiter guards ledger writes; nil leaves them unlimited.
	Limiter middleware.RateLimiter
	Health  http.Handler
}

func newRouter(d routerDeps) http.Handler {
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if d.Limiter != nil {
		rateLimit := middleware.RateLimit(d.Limiter)
		limited = func(h http.HandlerFunc) http.Handler { return rateLimit(h) }
	}

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1", handlers.Welcome(d.Version))

	routerMux.HandleFunc("POST /api/v1/products", d.Products.CreateProduct())
	routerMux.HandleFunc("POST /api/v1/products/bulk", d.Products.BulkCreateProducts())
	routerMux.HandleFunc("GET /api/v1/products", d.Products.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", d.Products.GetProduct())
	routerMux.HandleFunc("PUT /api/v1/products/{id}", d.Products.UpdateProduct())
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", d.Products.DeleteProduct())

	routerMux.HandleFunc("POST /api/v1/categories", d.Category.CreateCategory())
	routerMux.HandleFunc("GET /api/v1/categories", d.Category.ListCategories())
	routerMux.HandleFunc("GET /api/v1/categories/{id}", d.Category.GetCategory())
	routerMux.HandleFunc("PUT /api/v1/categories/{id}", d.Category.UpdateCategory())
	routerMux.HandleFunc("DELETE /api/v1/categories/{id}", d.Category.DeleteCategory())

	routerMux.Handle("POST /api/v1/purchases", limited(d.Ledger.CreatePurchase()))
	routerMux.HandleFunc("GET /api/v1/purchases", d.Ledger.ListPurchases())
	routerMux.Handle("POST /api/v1/sales", limited(d.Ledger.CreateSale()))
	routerMux.HandleFunc("GET /api/v1/sales", d.Ledger.ListSales())

	routerMux.HandleFunc("GET /api/v1/dashboard/summary", d.Analytics.DashboardSummary())
	routerMux.HandleFunc("GET /api/v1/analytics", d.Analytics.Analytics())

	if d.Health != nil {
		routerMux.Handle("GET /health", d.Health)
	}
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "stock-manager")

	return handler
}

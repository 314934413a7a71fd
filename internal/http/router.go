package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/middleware"
)

type Deps struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer

	CORSAllowOrigins []string

	Shop         Shop
	HealthProbes []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(middleware.CorrelationID(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(middleware.CORSOptions{AllowOrigins: d.CORSAllowOrigins, Routes: r}))
	r.Use(middleware.AccessLog(logger, d.Metrics))

	// Health
	health := &HealthHandler{Probes: d.HealthProbes}
	r.Get("/health", health.Self)
	r.Get("/health/upstreams", health.Upstreams)

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	s := NewShopHandler(d.Shop, logger)
	r.Get("/products", s.ListProducts)
	r.Get("/products/{productId}", s.GetProduct)
	r.Get("/cart/{sessionId}", s.GetCart)
	r.Post("/cart/{sessionId}", s.UpdateCart)
	r.Post("/confirm", s.Confirm)

	return r
}

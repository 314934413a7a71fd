package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/retry"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/telemetry"
)

const serviceName = "ui-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(serviceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("tracing setup failed", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Base HTTP client (shared)
	sharedHTTP := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	opts := clients.Options{
		HTTP:    sharedHTTP,
		Retry:   retry.Policy{MaxAttempts: cfg.RetryAttempts},
		Logger:  logger,
		Metrics: m,
	}

	// Upstream clients
	cartBase := clients.NewClient("cart-service", cfg.CartURL, opts)
	inventoryBase := clients.NewClient("inventory-service", cfg.InventoryURL, opts)
	orchestratorBase := clients.NewClient("orchestrator", cfg.OrchestratorURL, opts)

	deps := shop.Deps{
		Catalog:      clients.NewCatalogClient(inventoryBase),
		Cart:         clients.NewCartClient(cartBase),
		Inventory:    clients.NewInventoryClient(inventoryBase, cfg.ReservationEndpoint),
		Orchestrator: clients.NewOrchestratorClient(orchestratorBase),
		Logger:       logger,
		Metrics:      m,
	}

	// Health probes; the collaborators expose the actuator endpoint
	healthProbes := []clients.HealthProbe{
		{Name: "cart-service", Client: cartBase, Path: "/actuator/health"},
		{Name: "inventory-service", Client: inventoryBase, Path: "/actuator/health"},
		{Name: "orchestrator", Client: orchestratorBase, Path: "/actuator/health"},
	}

	if cfg.SimulateComputeIntensiveTask {
		simBase := clients.NewClient("computation-simulator", cfg.ComputationSimulatorURL, opts)
		deps.Simulator = clients.NewSimulatorClient(simBase)
	}

	if cfg.RabbitMQURL != "" {
		// Order events are best effort: without a broker the service still runs
		if conn, err := events.Dial(cfg.RabbitMQURL); err != nil {
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			defer conn.Close()
			pub, err := events.NewPublisher(conn)
			if err != nil {
				logger.Warn("order events disabled", zap.Error(err))
			} else {
				defer pub.Close()
				deps.Events = pub
				logger.Info("publishing order events", zap.String("exchange", events.EventsExchange))
			}
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		Metrics:          m,
		Gatherer:         reg,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Shop:             shop.NewService(deps),
		HealthProbes:     healthProbes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// In-flight requests run to completion; Shutdown waits for them
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

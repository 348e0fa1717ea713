package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	compliancehandler "govern/internal/compliance/handler"
	compliancemetrics "govern/internal/compliance/metrics"
	httpapi "govern/internal/http"
	"govern/internal/jurisdiction/bootstrap"
	jurisdictionhandler "govern/internal/jurisdiction/handler"
	"govern/internal/jurisdiction/resolver"
	resolvermetrics "govern/internal/jurisdiction/resolver/metrics"
	"govern/internal/platform/config"
	"govern/internal/platform/httpserver"
	"govern/internal/platform/logger"
	platformmetrics "govern/internal/platform/metrics"
	tenanthandler "govern/internal/tenant/handler"
	tenantmetrics "govern/internal/tenant/metrics"
	"govern/internal/tenant/service"
	tenantseed "govern/internal/tenant/store"
	tenantstore "govern/internal/tenant/store/tenant"
	"govern/pkg/platform/audit"
	"govern/pkg/platform/audit/publisher"
	auditfailover "govern/pkg/platform/audit/store/failover"
	auditkafka "govern/pkg/platform/audit/store/kafka"
	auditmemory "govern/pkg/platform/audit/store/memory"
	"govern/pkg/platform/ratelimit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Jurisdiction catalog and per-state rule engines.
	registry := bootstrap.Registry(log)
	engines := bootstrap.Engines()

	// Tenant persistence: postgres when configured, in-memory otherwise.
	var tenants service.TenantStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if _, err := pool.Exec(ctx, tenantstore.Schema); err != nil {
			log.Error("failed to apply tenant schema", "error", err)
			os.Exit(1)
		}
		tenants = tenantstore.NewPostgres(pool)
		log.Info("tenant store: postgres")
	} else {
		mem := tenantstore.NewInMemory()
		if cfg.SeedDemoData {
			tenantseed.SeedDemoTenants(mem)
			log.Info("seeded demo tenants")
		}
		tenants = mem
		log.Info("tenant store: in-memory")
	}

	// Audit pipeline: Kafka sink behind a failover breaker when brokers are
	// configured, plain in-memory store otherwise.
	auditFallback := auditmemory.NewInMemoryStore()
	var auditStore audit.Store = auditFallback
	if len(cfg.AuditBrokers) > 0 {
		kafkaStore, err := auditkafka.New(ctx, cfg.AuditBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("failed to connect audit kafka sink", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = auditfailover.New(kafkaStore, auditFallback, log)
		log.Info("audit sink: kafka", "topic", cfg.AuditTopic)
	}
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	// Services and handlers.
	tenantSvc := service.New(tenants,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(tenantmetrics.New()),
		service.WithDomainChecker(registry),
	)
	res := resolver.New(registry, log, resolver.WithMetrics(resolvermetrics.New()))

	var limit func(http.Handler) http.Handler
	if cfg.RateLimitPerMinute > 0 {
		limit = ratelimit.Middleware(ratelimit.NewSlidingWindow(cfg.RateLimitPerMinute, time.Minute), log)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Tenant:       tenanthandler.New(tenantSvc, log),
		Jurisdiction: jurisdictionhandler.New(registry, res, tenantSvc, log),
		Compliance:   compliancehandler.New(engines, tenantSvc, log, compliancemetrics.New(), auditPublisher),
		Metrics:      platformmetrics.New(),
		RateLimit:    limit,
		AdminToken:   cfg.AdminToken,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting govern", "addr", cfg.Addr, "jurisdictions", len(registry.Jurisdictions()))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

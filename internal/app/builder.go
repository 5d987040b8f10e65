package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeo/crm-audit-server/internal/api"
	"github.com/forgeo/crm-audit-server/internal/audit"
	auditstore "github.com/forgeo/crm-audit-server/internal/audit/store"
	"github.com/forgeo/crm-audit-server/internal/config"
	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/events"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/service"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/coordinator"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
	"github.com/forgeo/crm-audit-server/internal/sync/writer"
	"github.com/forgeo/crm-audit-server/internal/telemetry"
	"github.com/forgeo/crm-audit-server/internal/tokens"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	tracerName = "github.com/forgeo/crm-audit-server"
)

// AuditAppOption configures the audit app builder
type AuditAppOption func(*auditAppConfig) error

// auditAppConfig collects what NewAuditApp needs. Overrides left nil are built from config.
type auditAppConfig struct {
	config *config.Config

	// Optional component overrides
	database  *db.Connection
	guard     runlock.Guard
	publisher events.Publisher
	fetchers  crm.FetcherFactory

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...AuditAppOption) (*auditAppConfig, error) {
	cfg := &auditAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewAuditApp builds the application from its configuration
func NewAuditApp(ctx context.Context, opts ...AuditAppOption) (*AuditApp, error) {
	b, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if b.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var cleanups []func()
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		}
	}()

	if b.database == nil {
		b.database, err = db.NewConnection(ctx, b.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanups = append(cleanups, b.database.Close)
	}

	if b.guard == nil {
		guard, closeGuard, err := buildGuard(b.config, b.database)
		if err != nil {
			return nil, fmt.Errorf("failed to build run guard: %w", err)
		}
		b.guard = guard
		cleanups = append(cleanups, closeGuard)
	}

	if b.publisher == nil {
		b.publisher, err = buildPublisher(b.config)
		if err != nil {
			return nil, fmt.Errorf("failed to build event publisher: %w", err)
		}
		cleanups = append(cleanups, b.publisher.Close)
	}

	coord, svc, err := buildRunComponents(b)
	if err != nil {
		return nil, fmt.Errorf("failed to build run components: %w", err)
	}

	httpServer, err := buildHTTPServer(ctx, b, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cleanupNeeded = false

	return &AuditApp{
		config: b.config,
		components: &AppComponents{
			Coordinator: coord,
			Service:     svc,
			Database:    b.database,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
		cleanups:   cleanups,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithDatabase injects an open database connection. The caller keeps ownership.
func WithDatabase(conn *db.Connection) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.database = conn
		return nil
	}
}

// WithGuard injects the per-user run guard
func WithGuard(g runlock.Guard) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.guard = g
		return nil
	}
}

// WithPublisher injects the run outcome publisher. The caller keeps ownership.
func WithPublisher(p events.Publisher) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.publisher = p
		return nil
	}
}

// WithFetcherFactory injects the CRM fetcher factory
func WithFetcherFactory(f crm.FetcherFactory) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.fetchers = f
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and run metrics
func WithMeterProvider(mp metric.MeterProvider) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler sets the handler served at /metrics
func WithMetricsHandler(h http.Handler) AuditAppOption {
	return func(cfg *auditAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// buildGuard selects the run guard backend. The returned func releases its client.
func buildGuard(cfg *config.Config, conn *db.Connection) (runlock.Guard, func(), error) {
	backend := cfg.GetLockBackend()
	slog.Info("Initializing run guard", "backend", backend)

	switch backend {
	case config.LockBackendPostgres:
		if conn == nil {
			return nil, nil, fmt.Errorf("backend %s requires a database connection", backend)
		}
		return runlock.NewPostgresGuard(conn.Pool), func() {}, nil
	case config.LockBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RunLock.Redis.Addr,
			Password: cfg.RunLock.Redis.Password,
			DB:       cfg.RunLock.Redis.DB,
		})
		closeClient := func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close redis client", "error", err)
			}
		}
		return runlock.NewRedisGuard(client, cfg.RunLock.GetTTL()), closeClient, nil
	case config.LockBackendFile:
		guard, err := runlock.NewFileGuard(cfg.RunLock.Dir)
		if err != nil {
			return nil, nil, err
		}
		return guard, func() {}, nil
	case config.LockBackendMemory:
		return runlock.NewMemoryGuard(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown run guard backend %q", backend)
	}
}

func buildPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.Events == nil || cfg.Events.MQTT == nil {
		return events.NewNoopPublisher(), nil
	}
	slog.Info("Publishing run outcomes over MQTT", "broker", cfg.Events.MQTT.Broker)
	return events.NewMQTTPublisher(cfg.Events.MQTT)
}

// buildRunComponents builds the stores, orchestrators, coordinator and service
func buildRunComponents(b *auditAppConfig) (coordinator.Coordinator, service.Service, error) {
	slog.Info("Initializing run components")

	pool := b.database.Pool
	tokenStore := tokens.NewDBStore(pool)
	auditStore := auditstore.NewDBStore(pool)
	syncRuns := state.NewDBRunService(pool)
	snapshots, err := writer.NewDBSnapshotWriter(pool)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create snapshot writer: %w", err)
	}

	var tracer trace.Tracer
	if b.tracerProvider != nil {
		tracer = b.tracerProvider.Tracer(tracerName)
	}

	if b.fetchers == nil {
		b.fetchers = crm.NewFetcherFactory(tokenStore,
			crm.WithBaseURL(b.config.CRM.GetBaseURL()),
			crm.WithFactoryPageSize(b.config.CRM.GetPageSize()),
			crm.WithTimeout(b.config.CRM.GetTimeout()),
			crm.WithFactoryTracer(tracer),
		)
	}

	catalog := audit.DefaultCatalog()
	auditOpts := []audit.OrchestratorOption{
		audit.WithCatalog(catalog),
		audit.WithPublisher(b.publisher),
		audit.WithTracer(tracer),
	}
	runnerOpts := []pkgsync.RunnerOption{
		pkgsync.WithRunnerCatalog(catalog),
		pkgsync.WithRunnerPublisher(b.publisher),
		pkgsync.WithRunnerTracer(tracer),
	}

	if b.meterProvider != nil {
		auditMetrics, err := telemetry.NewAuditMetrics(b.meterProvider)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create audit metrics: %w", err)
		}
		syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		auditOpts = append(auditOpts, audit.WithMetrics(auditMetrics))
		runnerOpts = append(runnerOpts, pkgsync.WithSyncMetrics(syncMetrics))
		slog.Info("Run metrics enabled")
	}

	orchestrator := audit.NewOrchestrator(auditStore, b.fetchers, b.guard, auditOpts...)
	runner := pkgsync.NewRunner(syncRuns, snapshots, b.fetchers, b.guard, runnerOpts...)
	checker := pkgsync.NewFreshnessChecker(syncRuns, nil)

	coord := coordinator.New(runner, checker, tokenStore, b.config.Scheduler)

	svc := service.New(orchestrator, auditStore, runner, syncRuns, checker,
		service.WithServiceCatalog(catalog),
		service.WithCoordinator(coord),
		service.WithReadinessCheck(b.database),
	)

	slog.Info("Run components initialized successfully")
	return coord, svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *auditAppConfig,
	svc service.Service,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Tracing runs ahead of request logging so log lines carry the trace id
	if b.tracerProvider != nil {
		b.middlewares = append([]func(http.Handler) http.Handler{telemetry.TracingMiddleware(b.tracerProvider)},
			b.middlewares...)
	}

	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}

	router := api.NewServer(svc,
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(b.metricsHandler),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}

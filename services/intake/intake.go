// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package intake provides the onboarding form service.
//
// This package contains the main service type that coordinates all
// components: the question catalog, the session store, the interaction
// router, the completion pipeline, and observability infrastructure.
//
// # Deployment Integration
//
// The service supports dependency injection via extensions.ServiceOptions,
// enabling deployments to provide custom implementations of:
//   - ResponseSink: delivery of completed forms
//   - RoleDirectory: role grants and removals
//   - AuditLogger: compliance audit logging
//
// # Usage
//
// Standalone (uses no-op defaults):
//
//	cfg := intake.Config{Port: 12310, CatalogPath: "configs/catalog.yaml"}
//	svc, err := intake.New(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc.Run()
//
// Full deployment (with custom implementations):
//
//	opts := &extensions.ServiceOptions{
//	    ResponseSink:  sink.NewClient(sinkCfg, nil),
//	    RoleDirectory: roles.NewHTTPDirectory(dirCfg),
//	}
//	svc, err := intake.New(cfg, opts)
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/beaconforge/intakeflow/pkg/extensions"
	"github.com/beaconforge/intakeflow/services/intake/catalog"
	"github.com/beaconforge/intakeflow/services/intake/completion"
	"github.com/beaconforge/intakeflow/services/intake/flow"
	"github.com/beaconforge/intakeflow/services/intake/middleware"
	"github.com/beaconforge/intakeflow/services/intake/observability"
	"github.com/beaconforge/intakeflow/services/intake/render"
	"github.com/beaconforge/intakeflow/services/intake/roles"
	"github.com/beaconforge/intakeflow/services/intake/router"
	"github.com/beaconforge/intakeflow/services/intake/routes"
	"github.com/beaconforge/intakeflow/services/intake/session"
	"github.com/beaconforge/intakeflow/services/intake/sink"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the intake service.
//
// # Description
//
// Service abstracts the intake lifecycle, enabling testing and
// alternative implementations. Only essential lifecycle methods are
// exposed.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	//
	// The server drains in-flight requests on SIGINT or SIGTERM
	// before returning.
	Run() error

	// Router returns the underlying Gin engine for testing.
	//
	// Callers must not modify routes after construction.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Store backend names accepted by Config.StoreBackend.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreRedis  = "redis"
)

// Config holds intake service configuration options.
//
// # Description
//
// Config centralizes all configuration for the intake service. Values
// can be populated from environment variables, config files, or
// programmatically for testing.
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// CatalogPath is the question catalog YAML file.
	// Default: "configs/catalog.yaml"
	CatalogPath string

	// StoreBackend selects the session store.
	// Valid values: "memory", "badger", "redis"
	// Default: "memory"
	StoreBackend string

	// BadgerPath is the on-disk location for the badger backend.
	// Empty runs badger in memory.
	BadgerPath string

	// RedisURL is the connection URL for the redis backend.
	// Example: "redis://localhost:6379/0"
	RedisURL string

	// SinkURL is the webhook endpoint for completed forms.
	// If empty, submissions are not delivered.
	SinkURL string

	// SinkAuthToken is the bearer token for the sink endpoint.
	SinkAuthToken string

	// RoleDirectoryURL is the role directory API root.
	// If empty, role changes are no-ops.
	RoleDirectoryURL string

	// RoleDirectoryToken is the bearer token for the directory API.
	RoleDirectoryToken string

	// Roles names the onboarding ladder roles.
	Roles roles.Config

	// PageSize caps options shown per message. Default: 25
	PageSize int

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "intakeflow-otel-collector:4317"
	OTelEndpoint string

	// EnableMetrics enables the Prometheus metrics endpoint.
	// Default: true
	EnableMetrics bool

	// EnableTracing enables OTLP trace export.
	// Default: false (requires a reachable collector)
	EnableTracing bool

	// RateLimit tunes the per-user interaction limiter.
	RateLimit middleware.RateLimitConfig

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string

	// ShutdownTimeout bounds the drain on SIGTERM. Default: 10s
	ShutdownTimeout time.Duration
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Description
//
// service coordinates:
//   - HTTP routing via Gin
//   - the question catalog and branch resolution
//   - the session store (memory, badger, or redis)
//   - the interaction router and completion pipeline
//   - OpenTelemetry tracing and Prometheus metrics
//
// # Thread Safety
//
// Thread-safe after construction. All fields are read-only after New()
// returns.
type service struct {
	config        Config
	opts          extensions.ServiceOptions
	router        *gin.Engine
	store         session.Store
	storeCloser   func() error
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a new intake Service with the given configuration.
//
// # Description
//
// New initializes all intake components:
//  1. Applies default configuration for missing values
//  2. Loads and validates the question catalog
//  3. Opens the configured session store
//  4. Initializes OpenTelemetry tracing (when enabled)
//  5. Initializes Prometheus metrics
//  6. Builds the router, completion pipeline, and role service
//  7. Sets up HTTP routes with extension options
//
// If opts is nil, integrations configured by URL (sink, role
// directory) are constructed from the config; anything left
// unconfigured falls back to a no-op.
//
// # Inputs
//
//   - cfg: Service configuration. Zero values use defaults.
//   - opts: Extension options. May be nil.
//
// # Outputs
//
//   - Service: Ready-to-run intake service
//   - error: Non-nil if initialization fails
func New(cfg Config, opts *extensions.ServiceOptions) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if opts != nil {
		s.opts = *opts
	} else {
		s.opts = s.optionsFromConfig()
	}

	cat, err := catalog.Load(s.config.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load question catalog: %w", err)
	}

	if err := s.initStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	if s.config.EnableTracing {
		cleanup, err := s.initTracer()
		if err != nil {
			s.cleanup()
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	var met *observability.Metrics
	if s.config.EnableMetrics {
		met = observability.InitMetrics()
		slog.Info("Initialized Prometheus metrics for intake")
	}

	resolver := flow.NewResolver(cat, slog.Default())
	builder := render.NewBuilder(cat, resolver, render.Config{PageSize: s.config.PageSize})
	roleSvc := roles.NewService(s.config.Roles, s.opts.RoleDirectory, slog.Default(), met)
	pipeline := completion.New(cat, s.store, s.opts.ResponseSink, roleSvc, s.opts.AuditLogger, slog.Default(), met)
	rt := router.New(s.store, cat, resolver, builder, pipeline, slog.Default(), met)

	s.initRouter(rt, resolver, roleSvc)

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
//
// # Description
//
// Serves on the configured port and drains in-flight requests for up
// to ShutdownTimeout after SIGINT or SIGTERM.
func (s *service) Run() error {
	defer s.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}
	slog.Info("Starting intake server", "port", s.config.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down intake server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "configs/catalog.yaml"
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = StoreMemory
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "intakeflow-otel-collector:4317"
	}
	cfg.EnableMetrics = true
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}

// optionsFromConfig builds extension options from the URL-configured
// integrations, defaulting anything unset to a no-op.
func (s *service) optionsFromConfig() extensions.ServiceOptions {
	opts := extensions.DefaultOptions()
	if s.config.SinkURL != "" {
		opts.ResponseSink = sink.NewClient(sink.Config{
			URL:       s.config.SinkURL,
			AuthToken: s.config.SinkAuthToken,
		}, slog.Default())
	}
	if s.config.RoleDirectoryURL != "" {
		opts.RoleDirectory = roles.NewHTTPDirectory(roles.DirectoryConfig{
			BaseURL:   s.config.RoleDirectoryURL,
			AuthToken: s.config.RoleDirectoryToken,
		})
	}
	return opts
}

// initStore opens the configured session store backend.
func (s *service) initStore() error {
	switch s.config.StoreBackend {
	case StoreMemory:
		s.store = session.NewMemoryStore()
		slog.Info("Using in-memory session store")
	case StoreBadger:
		bs, err := session.NewBadgerStore(session.BadgerConfig{
			Path:     s.config.BadgerPath,
			InMemory: s.config.BadgerPath == "",
		})
		if err != nil {
			return err
		}
		s.store = bs
		s.storeCloser = bs.Close
		slog.Info("Using badger session store", "path", s.config.BadgerPath)
	case StoreRedis:
		rs, err := session.NewRedisStore(context.Background(), s.config.RedisURL)
		if err != nil {
			return err
		}
		s.store = rs
		s.storeCloser = rs.Close
		slog.Info("Using redis session store")
	default:
		return fmt.Errorf("unknown store backend %q", s.config.StoreBackend)
	}
	return nil
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// # Description
//
// Sets up an OTLP trace exporter sending spans to the configured
// collector over insecure gRPC, appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("intake-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter(rt *router.Router, resolver *flow.Resolver, roleSvc *roles.Service) {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	if s.config.EnableTracing {
		s.router.Use(otelgin.Middleware("intake-service"))
	}

	limiter := middleware.NewRateLimiter(s.config.RateLimit)
	routes.SetupRoutes(s.router, rt, s.store, resolver, roleSvc, limiter, s.config.EnableMetrics)
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.storeCloser != nil {
		if err := s.storeCloser(); err != nil {
			slog.Warn("session store close error", "error", err)
		}
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)

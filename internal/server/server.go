package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/internal/config"
	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/server/endpoints"
	"github.com/jackzampolin/promptbox/internal/svcctx"
	"github.com/jackzampolin/promptbox/internal/telemetry"
)

const serviceName = "promptbox"

// Server is the main promptbox HTTP server.
// It owns the prompt store, opening it on start and closing it on shutdown.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	store      *prompts.Store
	ownsStore  bool
	tracing    *telemetry.Tracing
	configMgr  *config.Manager
	logger     *slog.Logger

	databasePath string
	seed         bool

	// services holds all core services for context enrichment
	services atomic.Pointer[svcctx.Services]
	origins  atomic.Pointer[originSet]

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// DatabasePath is the SQLite file to open on start.
	DatabasePath string
	// Seed inserts sample data into an empty database.
	Seed bool
	// Store is an already-open store. When set, DatabasePath is ignored
	// and the caller keeps ownership.
	Store *prompts.Store
	// AllowOrigins is the CORS allow list (default: any origin)
	AllowOrigins []string
	// Tracing enables OpenTelemetry spans, written to TraceWriter.
	Tracing     bool
	TraceWriter io.Writer
	// Version is reported on spans.
	Version string
	// SwaggerSpecPath overrides the embedded OpenAPI document.
	SwaggerSpecPath string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.AllowOrigins == nil {
		cfg.AllowOrigins = []string{"*"}
	}
	if cfg.Store == nil && cfg.DatabasePath == "" {
		return nil, errors.New("database path or store is required")
	}

	tracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:     cfg.Tracing,
		ServiceName: serviceName,
		Version:     cfg.Version,
		Writer:      cfg.TraceWriter,
	}, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	s := &Server{
		store:        cfg.Store,
		tracing:      tracing,
		configMgr:    cfg.ConfigManager,
		logger:       cfg.Logger,
		databasePath: cfg.DatabasePath,
		seed:         cfg.Seed,
	}
	s.SetAllowedOrigins(cfg.AllowOrigins)

	// Apply CORS changes without a restart
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			s.SetAllowedOrigins(c.CORS.AllowOrigins)
			cfg.Logger.Info("CORS origins reloaded from config", "origins", c.CORS.AllowOrigins)
		})
	}

	if s.store != nil {
		s.setServices(s.store)
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: cfg.SwaggerSpecPath}) {
		s.endpointRegistry.Register(ep)
	}

	s.engine = s.newEngine()

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		requestID(),
		otelgin.Middleware(serviceName, otelgin.WithTracerProvider(s.tracing.Provider)),
		requestLogger(s.logger),
		recovery(s.logger),
		s.corsMiddleware(),
		s.withServices(),
	)
	s.endpointRegistry.RegisterRoutes(engine, s.requireInit())
	return engine
}

// Handler returns the HTTP handler, for serving without Start.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start opens the store and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.store == nil {
		s.logger.Info("opening prompt store", "path", s.databasePath)
		store, err := prompts.Open(ctx, prompts.OpenConfig{
			Path:   s.databasePath,
			Seed:   s.seed,
			Logger: s.logger,
		})
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to open prompt store: %w", err)
		}
		s.store = store
		s.ownsStore = true
		s.setServices(store)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			s.logger.Info("shutdown signal received")
		}
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown performs graceful shutdown of the HTTP server, tracing and store.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := s.tracing.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("tracing shutdown error", "error", err)
	}

	if s.ownsStore {
		s.services.Store(nil)
		if err := s.store.Close(); err != nil {
			s.logger.Error("prompt store close error", "error", err)
		}
		s.store = nil
		s.ownsStore = false
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *Server) setServices(store *prompts.Store) {
	s.services.Store(&svcctx.Services{
		Store:  store,
		Logger: s.logger,
	})
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Endpoints returns the endpoint registry, for building CLI commands.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}

// requireInit is middleware that ensures the store is open.
// Returns 503 Service Unavailable until it is.
func (s *Server) requireInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if svcctx.StoreFrom(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server not fully initialized"})
			return
		}
		c.Next()
	}
}

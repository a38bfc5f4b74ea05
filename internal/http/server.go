package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/envelope/internal/config"
	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
	"github.com/allisson/envelope/internal/metrics"
	textcipherHTTP "github.com/allisson/envelope/internal/textcipher/http"
)

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   *gin.Engine
	provider contentkeyUsecase.Provider
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. provider backs the readiness check.
func NewServer(
	provider contentkeyUsecase.Provider,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		provider: provider,
		logger:   logger,
		server:   newStdServer(host, port),
	}
}

// newStdServer returns an http.Server with the timeouts shared by the API and metrics servers.
func newStdServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// SetupRouter builds the gin router with middleware and all routes.
// ctx bounds background middleware work such as rate limiter cleanup.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	cryptoHandler *textcipherHTTP.CryptoHandler,
	statusHandler *textcipherHTTP.StatusHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	keys := v1.Group("/keys")
	{
		keys.GET("/status", statusHandler.GetHandler)
		keys.POST("/:name/encrypt", cryptoHandler.EncryptHandler)
		keys.POST("/:name/decrypt", cryptoHandler.DecryptHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// Provision loads or creates the content key so that /ready resolves without
// waiting for the first encrypt or decrypt request. A failure is logged and
// leaves the provider Unprovisioned; the next request retries.
func (s *Server) Provision(ctx context.Context) error {
	if s.provider == nil {
		return fmt.Errorf("content key provider not configured")
	}

	if _, err := s.provider.SecretKey(ctx); err != nil {
		s.logger.Error("content key provisioning failed", slog.Any("error", err))
		return err
	}

	s.logger.Info("content key ready",
		slog.String("alias", s.provider.Alias()),
		slog.String("strategy", string(s.provider.Strategy())),
	)
	return nil
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready once the content key has been provisioned.
func (s *Server) readinessHandler(c *gin.Context) {
	state := contentkeyDomain.StateUnprovisioned
	if s.provider != nil {
		state = s.provider.State()
	}

	components := gin.H{"content_key": state.String()}
	if state != contentkeyDomain.StateReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

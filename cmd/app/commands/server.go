package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envelope/internal/app"
	"github.com/allisson/envelope/internal/config"
	apphttp "github.com/allisson/envelope/internal/http"
)

// server is the lifecycle shared by the API and metrics servers.
type server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type namedServer struct {
	name string
	server
}

// RunServer serves the key API, plus /metrics when enabled, until SIGINT or
// SIGTERM or until either server fails. The content key is provisioned in the
// background at startup; readiness reports when that finished.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	logger.Info("starting server",
		slog.String("version", version),
		slog.String("keystore_backend", cfg.KeystoreBackend),
		slog.String("content_key_strategy", cfg.ContentKeyStrategy),
	)

	servers, apiServer, err := buildServers(container)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// An existing wrapped record or hardware key makes /ready resolve right
	// after startup; on failure the first request retries.
	go func() { _ = apiServer.Provision(ctx) }()

	serverErr := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			if err := s.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("%s error: %w", s.name, err)
			}
		}()
	}

	var cause error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case cause = <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", cause))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer shutdownCancel()

	errs := []error{cause}
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func buildServers(container *app.Container) ([]namedServer, *apphttp.Server, error) {
	apiServer, err := container.HTTPServer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	servers := []namedServer{{name: "api server", server: apiServer}}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		servers = append(servers, namedServer{name: "metrics server", server: metricsServer})
	}

	return servers, apiServer, nil
}

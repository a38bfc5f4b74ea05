package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
)

// RunProvision provisions the content key ahead of first use.
// It is idempotent: an already provisioned key is loaded and reported.
// Key material is never written to writer.
func RunProvision(
	ctx context.Context,
	provider contentkeyUsecase.Provider,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("provisioning content key",
		slog.String("alias", provider.Alias()),
		slog.String("strategy", string(provider.Strategy())),
	)

	key, err := provider.SecretKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to provision content key: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Content key ready\n")
	_, _ = fmt.Fprintf(writer, "Alias:    %s\n", key.Alias())
	_, _ = fmt.Fprintf(writer, "Strategy: %s\n", key.Strategy())

	logger.Info("content key provisioned",
		slog.String("alias", key.Alias()),
		slog.String("state", provider.State().String()),
	)

	return nil
}

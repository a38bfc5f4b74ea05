// Package usecase implements the secret key manager facade over a content key provider.
package usecase

import (
	"context"
	"log/slog"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
	apperrors "github.com/allisson/envelope/internal/errors"
	secretkeyDomain "github.com/allisson/envelope/internal/secretkey/domain"
)

// secretKeyManager serves every key name from a single provider.
// Names are validated and logged but do not select distinct keys.
type secretKeyManager struct {
	provider contentkeyUsecase.Provider
	logger   *slog.Logger
}

// NewSecretKeyManager creates a SecretKeyManager backed by provider.
func NewSecretKeyManager(provider contentkeyUsecase.Provider, logger *slog.Logger) SecretKeyManager {
	return &secretKeyManager{
		provider: provider,
		logger:   logger,
	}
}

// GetSecretKey validates name and returns the provider's content key.
func (s *secretKeyManager) GetSecretKey(ctx context.Context, name string) (contentkeyDomain.ContentKey, error) {
	if err := secretkeyDomain.ValidateKeyName(name); err != nil {
		return nil, err
	}

	key, err := s.provider.SecretKey(ctx)
	if err != nil {
		s.logger.Warn("secret key unavailable",
			slog.String("key_name", name),
			slog.String("strategy", string(s.provider.Strategy())),
			slog.Any("error", err),
		)
		return nil, apperrors.Join(secretkeyDomain.ErrKeyUnavailable, err)
	}

	s.logger.Debug("secret key resolved",
		slog.String("key_name", name),
		slog.String("alias", key.Alias()),
	)
	return key, nil
}

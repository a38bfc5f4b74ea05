package usecase

import (
	"context"
	"log/slog"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	keystoreService "github.com/allisson/envelope/internal/keystore/service"
)

// NewHardwareManagedProvider returns a provider whose content key is generated
// and held by the key store. Key bytes never enter process memory.
func NewHardwareManagedProvider(
	alias string,
	keyStore keystoreService.KeyStore,
	logger *slog.Logger,
) Provider {
	provision := func(ctx context.Context, logger *slog.Logger) (contentkeyDomain.ContentKey, error) {
		handle, err := keyStore.GetOrCreateSecretKey(ctx, alias)
		if err != nil {
			return nil, err
		}
		return contentkeyDomain.NewHardwareContentKey(alias, handle), nil
	}

	return newProvider(alias, contentkeyDomain.StrategyHardwareManaged, provision, logger)
}

package usecase

import (
	"log/slog"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyService "github.com/allisson/envelope/internal/contentkey/service"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
	keystoreService "github.com/allisson/envelope/internal/keystore/service"
)

// SelectStrategy resolves a strategy preference against key store capabilities.
// Auto prefers hardware-managed keys when the store can hold AES keys.
func SelectStrategy(
	preference contentkeyDomain.Strategy,
	caps keystoreDomain.Capabilities,
) (contentkeyDomain.Strategy, error) {
	switch preference {
	case contentkeyDomain.StrategyAuto, "":
		if caps.SymmetricKeys {
			return contentkeyDomain.StrategyHardwareManaged, nil
		}
		return contentkeyDomain.StrategyLegacyWrapped, nil
	case contentkeyDomain.StrategyHardwareManaged:
		if !caps.SymmetricKeys {
			return "", contentkeyDomain.ErrUnsupportedPlatform
		}
		return preference, nil
	case contentkeyDomain.StrategyLegacyWrapped:
		return preference, nil
	default:
		return "", contentkeyDomain.ErrUnknownStrategy
	}
}

// NewProvider selects a strategy once and builds the matching provider.
// blobs may be nil when the strategy resolves to hardware-managed.
func NewProvider(
	preference contentkeyDomain.Strategy,
	alias string,
	keyStore keystoreService.KeyStore,
	blobs BlobStore,
	logger *slog.Logger,
) (Provider, error) {
	strategy, err := SelectStrategy(preference, keyStore.Capabilities())
	if err != nil {
		return nil, err
	}

	if strategy == contentkeyDomain.StrategyHardwareManaged {
		return NewHardwareManagedProvider(alias, keyStore, logger), nil
	}

	if blobs == nil {
		return nil, contentkeyDomain.ErrUnsupportedPlatform
	}
	return NewLegacyWrappedProvider(alias, keyStore, contentkeyService.NewRSAKeyWrapper(), blobs, logger), nil
}

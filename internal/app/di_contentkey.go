package app

import (
	"fmt"

	"github.com/allisson/envelope/internal/config"
	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyRepository "github.com/allisson/envelope/internal/contentkey/repository"
	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
	"github.com/allisson/envelope/internal/metrics"
)

// BlobStore returns the store that holds the wrapped content key.
func (c *Container) BlobStore() (contentkeyUsecase.BlobStore, error) {
	var err error
	c.blobStoreInit.Do(func() {
		c.blobStore, err = c.initBlobStore()
		if err != nil {
			c.initErrors["blobStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// ContentKeyProvider returns the content key provider for the configured strategy.
func (c *Container) ContentKeyProvider() (contentkeyUsecase.Provider, error) {
	var err error
	c.contentKeyProviderInit.Do(func() {
		c.contentKeyProvider, err = c.initContentKeyProvider()
		if err != nil {
			c.initErrors["contentKeyProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["contentKeyProvider"]; exists {
		return nil, storedErr
	}
	return c.contentKeyProvider, nil
}

// initBlobStore selects the blob store implementation by driver.
// SQL drivers share the application database, so DB_DRIVER must match.
func (c *Container) initBlobStore() (contentkeyUsecase.BlobStore, error) {
	switch c.config.BlobStoreDriver {
	case config.BlobStoreDriverBucket:
		store, err := contentkeyRepository.OpenBucketBlobStore(c.ctx, c.config.BlobStoreBucketURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket blob store: %w", err)
		}
		c.blobStoreCloser = store
		return store, nil

	case config.BlobStoreDriverPostgres, config.BlobStoreDriverMySQL:
		if c.config.DBDriver != c.config.BlobStoreDriver {
			return nil, fmt.Errorf(
				"blob store driver %s does not match database driver %s",
				c.config.BlobStoreDriver,
				c.config.DBDriver,
			)
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for blob store: %w", err)
		}

		if c.config.BlobStoreDriver == config.BlobStoreDriverMySQL {
			return contentkeyRepository.NewMySQLBlobStore(db), nil
		}
		return contentkeyRepository.NewPostgreSQLBlobStore(db), nil

	default:
		return nil, fmt.Errorf("unsupported blob store driver: %s", c.config.BlobStoreDriver)
	}
}

// initContentKeyProvider resolves the strategy against the key store and builds the provider.
// The blob store is only opened when the strategy needs it.
func (c *Container) initContentKeyProvider() (contentkeyUsecase.Provider, error) {
	preference, err := contentkeyDomain.ParseStrategy(c.config.ContentKeyStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid content key strategy %q: %w", c.config.ContentKeyStrategy, err)
	}

	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for content key provider: %w", err)
	}

	strategy, err := contentkeyUsecase.SelectStrategy(preference, keyStore.Capabilities())
	if err != nil {
		return nil, fmt.Errorf("failed to select content key strategy: %w", err)
	}

	var blobs contentkeyUsecase.BlobStore
	if strategy == contentkeyDomain.StrategyLegacyWrapped {
		blobs, err = c.BlobStore()
		if err != nil {
			return nil, fmt.Errorf("failed to get blob store for content key provider: %w", err)
		}
	}

	provider, err := contentkeyUsecase.NewProvider(strategy, c.config.KEKAlias, keyStore, blobs, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create content key provider: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for content key provider: %w", err)
	}
	if metricsProvider != nil {
		if err := metrics.RegisterContentKeyGauge(
			metricsProvider.MeterProvider(),
			c.config.MetricsNamespace,
			provider.Alias(),
			string(provider.Strategy()),
			func() bool { return provider.State() == contentkeyDomain.StateReady },
		); err != nil {
			return nil, err
		}
	}

	return provider, nil
}

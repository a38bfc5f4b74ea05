package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/envelope/internal/config"
	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	"github.com/allisson/envelope/internal/metrics"
)

func keeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// sealedConfig returns a configuration backed entirely by in-memory stores.
func sealedConfig(t *testing.T) *config.Config {
	return &config.Config{
		ServerHost:         "localhost",
		ServerPort:         8080,
		LogLevel:           "error",
		KeystoreBackend:    config.KeystoreBackendSealed,
		KeystoreBucketURL:  "mem://",
		KeystoreKeeperURI:  keeperURI(t),
		KEKAlias:           "kek-content-wrap",
		KEKValidity:        24 * time.Hour,
		KEKSerial:          10,
		KEKRSABits:         2048,
		ContentKeyStrategy: "auto",
		BlobStoreDriver:    config.BlobStoreDriverBucket,
		BlobStoreBucketURL: "mem://",
		MetricsNamespace:   "envelope",
		MetricsPort:        8081,
	}
}

func TestNewContainer(t *testing.T) {
	cfg := sealedConfig(t)

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "invalid"} {
		t.Run(level, func(t *testing.T) {
			container := NewContainer(&config.Config{LogLevel: level})

			logger := container.Logger()
			require.NotNil(t, logger)
			assert.Same(t, logger, container.Logger())
		})
	}
}

func TestContainer_DB(t *testing.T) {
	t.Run("Error_InvalidDriver", func(t *testing.T) {
		container := NewContainer(&config.Config{DBDriver: "invalid_driver"})

		db, err := container.DB()
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to database")

		// The error is cached for subsequent calls.
		_, err2 := container.DB()
		assert.Equal(t, err, err2)
	})
}

func TestContainer_KeyStore(t *testing.T) {
	t.Run("Success_Sealed", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))
		defer func() { _ = container.Shutdown(context.Background()) }()

		store, err := container.KeyStore()
		require.NoError(t, err)

		caps := store.Capabilities()
		assert.False(t, caps.HardwareBacked)
		assert.False(t, caps.SymmetricKeys)

		again, err := container.KeyStore()
		require.NoError(t, err)
		assert.Same(t, store, again)
	})

	t.Run("Error_InvalidKeeper", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.KeystoreKeeperURI = "unknown://key"
		container := NewContainer(cfg)

		_, err := container.KeyStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open keeper")
	})

	t.Run("Error_UnsupportedBackend", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.KeystoreBackend = "keychain"
		container := NewContainer(cfg)

		_, err := container.KeyStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported key store backend")
	})
}

func TestContainer_BlobStore(t *testing.T) {
	t.Run("Success_Bucket", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))
		defer func() { _ = container.Shutdown(context.Background()) }()

		store, err := container.BlobStore()
		require.NoError(t, err)
		require.NotNil(t, store)

		ctx := context.Background()
		require.NoError(t, store.Put(ctx, "wrapped-content-key-store", "wrapped_key_b64", "dmFsdWU="))
		value, err := store.Get(ctx, "wrapped-content-key-store", "wrapped_key_b64")
		require.NoError(t, err)
		assert.Equal(t, "dmFsdWU=", value)
	})

	t.Run("Error_DriverMismatch", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.BlobStoreDriver = config.BlobStoreDriverMySQL
		cfg.DBDriver = "postgres"
		container := NewContainer(cfg)

		_, err := container.BlobStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match database driver")
	})

	t.Run("Error_UnsupportedDriver", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.BlobStoreDriver = "redis"
		container := NewContainer(cfg)

		_, err := container.BlobStore()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported blob store driver")
	})
}

func TestContainer_ContentKeyProvider(t *testing.T) {
	t.Run("Success_AutoResolvesToLegacyWrapped", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))
		defer func() { _ = container.Shutdown(context.Background()) }()

		provider, err := container.ContentKeyProvider()
		require.NoError(t, err)

		assert.Equal(t, contentkeyDomain.StrategyLegacyWrapped, provider.Strategy())
		assert.Equal(t, contentkeyDomain.StateUnprovisioned, provider.State())
		assert.Equal(t, "kek-content-wrap", provider.Alias())
	})

	t.Run("Error_HardwareManagedOnSealedStore", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.ContentKeyStrategy = "hardware-managed"
		container := NewContainer(cfg)
		defer func() { _ = container.Shutdown(context.Background()) }()

		_, err := container.ContentKeyProvider()
		assert.ErrorIs(t, err, contentkeyDomain.ErrUnsupportedPlatform)
	})

	t.Run("Error_UnknownStrategy", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.ContentKeyStrategy = "software"
		container := NewContainer(cfg)

		_, err := container.ContentKeyProvider()
		assert.ErrorIs(t, err, contentkeyDomain.ErrUnknownStrategy)
	})
}

func TestContainer_BusinessMetrics(t *testing.T) {
	t.Run("NoOpWhenDisabled", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		assert.Nil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		assert.Nil(t, server)
	})

	t.Run("EnabledWithProvider", func(t *testing.T) {
		cfg := sealedConfig(t)
		cfg.MetricsEnabled = true
		container := NewContainer(cfg)
		defer func() { _ = container.Shutdown(context.Background()) }()

		provider, err := container.MetricsProvider()
		require.NoError(t, err)
		require.NotNil(t, provider)

		businessMetrics, err := container.BusinessMetrics()
		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)

		_, err = container.ContentKeyProvider()
		require.NoError(t, err)

		server, err := container.MetricsServer()
		require.NoError(t, err)
		require.NotNil(t, server)

		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "envelope_content_key_ready")
	})
}

func TestContainer_HTTPServer(t *testing.T) {
	cfg := sealedConfig(t)
	cfg.MetricsEnabled = true
	container := NewContainer(cfg)
	defer func() { _ = container.Shutdown(context.Background()) }()

	server, err := container.HTTPServer()
	require.NoError(t, err)
	handler := server.GetHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body, err := json.Marshal(map[string]string{"plaintext": "hello-otus"})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/keys/orders/encrypt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var encrypted map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encrypted))

	body, err = json.Marshal(map[string]string{"ciphertext": encrypted["ciphertext"]})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/keys/orders/decrypt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plaintext":"hello-otus"}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainer_Shutdown(t *testing.T) {
	t.Run("NothingInitialized", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))
		assert.NoError(t, container.Shutdown(context.Background()))
	})

	t.Run("ClosesStores", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))

		_, err := container.ContentKeyProvider()
		require.NoError(t, err)
		assert.NoError(t, container.Shutdown(context.Background()))
	})

	t.Run("ZeroesProvisionedKey", func(t *testing.T) {
		container := NewContainer(sealedConfig(t))

		provider, err := container.ContentKeyProvider()
		require.NoError(t, err)
		key, err := provider.SecretKey(context.Background())
		require.NoError(t, err)
		raw, ok := key.(*contentkeyDomain.RawContentKey)
		require.True(t, ok)
		require.NotEqual(t, make([]byte, contentkeyDomain.KeySize), raw.Bytes())

		require.NoError(t, container.Shutdown(context.Background()))

		assert.Equal(t, make([]byte, contentkeyDomain.KeySize), raw.Bytes())
		assert.Equal(t, contentkeyDomain.StateUnprovisioned, provider.State())
	})
}

package usecase

import (
	"context"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
)

// BlobStore persists small named string values.
type BlobStore interface {
	// Get returns the value under store/key or ErrBlobNotFound.
	Get(ctx context.Context, store, key string) (string, error)
	// Put replaces the value under store/key. A failed Put leaves no partial value.
	Put(ctx context.Context, store, key, value string) error
}

// Provider hands out the content key, provisioning it on first access.
type Provider interface {
	// SecretKey returns the provisioned content key or provisions it.
	// Concurrent first callers share one provisioning attempt.
	SecretKey(ctx context.Context) (contentkeyDomain.ContentKey, error)
	// State reports the provisioning state.
	State() contentkeyDomain.State
	// Strategy reports how the content key is protected.
	Strategy() contentkeyDomain.Strategy
	// Alias is the alias the content key is provisioned under.
	Alias() string
	// Close zeroes in-memory key material and returns the provider to
	// Unprovisioned. It is called once at process shutdown.
	Close() error
}

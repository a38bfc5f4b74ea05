package domain

import (
	"github.com/allisson/envelope/internal/errors"
)

// Key store error definitions.
var (
	// ErrKeyNotFound indicates no key is stored under the requested alias.
	// Stores use it internally to decide when to generate.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrKeyStoreFailure indicates the secure hardware, keeper or bucket rejected
	// an operation. It is not retried.
	ErrKeyStoreFailure = errors.Wrap(errors.ErrUnavailable, "key store failure")

	// ErrSymmetricKeysUnsupported is returned by asymmetric-only stores.
	ErrSymmetricKeysUnsupported = errors.Wrap(errors.ErrUnavailable, "symmetric keys unsupported")

	// ErrInvalidAlias indicates an empty or malformed alias.
	ErrInvalidAlias = errors.Wrap(errors.ErrInvalidInput, "invalid alias")
)

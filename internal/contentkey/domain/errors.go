package domain

import (
	"github.com/allisson/envelope/internal/errors"
)

// Content key error definitions.
var (
	// ErrBlobNotFound indicates no value is stored under the requested store and key.
	ErrBlobNotFound = errors.Wrap(errors.ErrNotFound, "blob not found")

	// ErrPersistenceFailure indicates the blob store could not read or durably write a value.
	ErrPersistenceFailure = errors.Wrap(errors.ErrUnavailable, "persistence failure")

	// ErrDecode indicates a stored wrapped key record is not valid Base64.
	ErrDecode = errors.Wrap(errors.ErrInvalidInput, "wrapped key decode error")

	// ErrInvalidKeySize indicates an unwrapped content key is not 16 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid content key size")

	// ErrUnsupportedPlatform indicates the key store cannot honour the requested strategy.
	ErrUnsupportedPlatform = errors.Wrap(errors.ErrUnavailable, "unsupported platform")

	// ErrUnknownStrategy indicates a strategy name outside auto, hardware-managed and legacy-wrapped.
	ErrUnknownStrategy = errors.Wrap(errors.ErrInvalidInput, "unknown content key strategy")
)

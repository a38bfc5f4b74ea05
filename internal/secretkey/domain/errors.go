// Package domain defines errors for named secret key lookups.
package domain

import (
	"github.com/allisson/envelope/internal/errors"
)

var (
	// ErrKeyUnavailable indicates the content key could not be provisioned or loaded.
	// The underlying cause stays reachable with errors.Is.
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "key unavailable")

	// ErrInvalidKeyName indicates a blank or malformed key name.
	ErrInvalidKeyName = errors.Wrap(errors.ErrInvalidInput, "invalid key name")
)

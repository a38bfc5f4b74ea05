package domain

import (
	"github.com/allisson/envelope/internal/errors"
)

// Text cipher error definitions.
var (
	// ErrDecode indicates an encrypted message is not valid Base64 or is too
	// short to hold a nonce and tag.
	ErrDecode = errors.Wrap(errors.ErrInvalidInput, "encrypted message decode error")

	// ErrAuthenticationFailure indicates GCM tag verification failed: the message
	// was tampered with, corrupted or encrypted under another key.
	ErrAuthenticationFailure = errors.Wrap(errors.ErrInvalidInput, "authentication failure")
)

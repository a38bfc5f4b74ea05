package usecase

import (
	"context"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
)

// SecretKeyManager resolves named secret keys for client code.
type SecretKeyManager interface {
	// GetSecretKey returns the content key serving name.
	GetSecretKey(ctx context.Context, name string) (contentkeyDomain.ContentKey, error)
}

// Package mocks provides mock implementations of the secret key use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
)

// MockSecretKeyManager is a mock implementation of SecretKeyManager for testing.
type MockSecretKeyManager struct {
	mock.Mock
}

// GetSecretKey mocks the GetSecretKey method of SecretKeyManager.
func (m *MockSecretKeyManager) GetSecretKey(
	ctx context.Context,
	name string,
) (contentkeyDomain.ContentKey, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentkeyDomain.ContentKey), args.Error(1)
}

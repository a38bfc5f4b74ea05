// Package mocks provides mock implementations of the content key use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
)

// MockBlobStore is a mock implementation of BlobStore for testing.
type MockBlobStore struct {
	mock.Mock
}

// Get mocks the Get method of BlobStore.
func (m *MockBlobStore) Get(ctx context.Context, store, key string) (string, error) {
	args := m.Called(ctx, store, key)
	return args.String(0), args.Error(1)
}

// Put mocks the Put method of BlobStore.
func (m *MockBlobStore) Put(ctx context.Context, store, key, value string) error {
	args := m.Called(ctx, store, key, value)
	return args.Error(0)
}

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// SecretKey mocks the SecretKey method of Provider.
func (m *MockProvider) SecretKey(ctx context.Context) (contentkeyDomain.ContentKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentkeyDomain.ContentKey), args.Error(1)
}

// State mocks the State method of Provider.
func (m *MockProvider) State() contentkeyDomain.State {
	args := m.Called()
	return args.Get(0).(contentkeyDomain.State)
}

// Strategy mocks the Strategy method of Provider.
func (m *MockProvider) Strategy() contentkeyDomain.Strategy {
	args := m.Called()
	return args.Get(0).(contentkeyDomain.Strategy)
}

// Alias mocks the Alias method of Provider.
func (m *MockProvider) Alias() string {
	args := m.Called()
	return args.String(0)
}

// Close mocks the Close method of Provider.
func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0)
}

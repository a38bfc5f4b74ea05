// Package mocks provides mock implementations of the text cipher use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextCipherUseCase is a mock implementation of TextCipherUseCase for testing.
type MockTextCipherUseCase struct {
	mock.Mock
}

// EncryptText mocks the EncryptText method of TextCipherUseCase.
func (m *MockTextCipherUseCase) EncryptText(ctx context.Context, keyName, plaintext string) (string, error) {
	args := m.Called(ctx, keyName, plaintext)
	return args.String(0), args.Error(1)
}

// DecryptText mocks the DecryptText method of TextCipherUseCase.
func (m *MockTextCipherUseCase) DecryptText(ctx context.Context, keyName, encoded string) (string, error) {
	args := m.Called(ctx, keyName, encoded)
	return args.String(0), args.Error(1)
}

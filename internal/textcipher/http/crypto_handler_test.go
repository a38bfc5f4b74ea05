package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	apperrors "github.com/allisson/envelope/internal/errors"
	secretkeyDomain "github.com/allisson/envelope/internal/secretkey/domain"
	secretkeyMocks "github.com/allisson/envelope/internal/secretkey/usecase/mocks"
	textcipherDomain "github.com/allisson/envelope/internal/textcipher/domain"
	"github.com/allisson/envelope/internal/textcipher/http/dto"
	textcipherService "github.com/allisson/envelope/internal/textcipher/service"
	textcipherUsecase "github.com/allisson/envelope/internal/textcipher/usecase"
	"github.com/allisson/envelope/internal/textcipher/usecase/mocks"
)

// setupTestCryptoHandler creates a test crypto handler with mocked dependencies.
func setupTestCryptoHandler(t *testing.T) (*CryptoHandler, *mocks.MockTextCipherUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockTextCipherUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCryptoHandler(mockUseCase, logger), mockUseCase
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &response))
	code, _ := response["error"].(string)
	return code
}

func TestCryptoHandler_EncryptHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("EncryptText", mock.Anything, "otus", "hello-otus").
			Return("c2VhbGVkLW1lc3NhZ2U=", nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/encrypt", dto.EncryptRequest{Plaintext: "hello-otus"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.EncryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "c2VhbGVkLW1lc3NhZ2U=", response.Ciphertext)
	})

	t.Run("Error_EmptyName", func(t *testing.T) {
		handler, _ := setupTestCryptoHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys//encrypt", dto.EncryptRequest{Plaintext: "hello-otus"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: ""}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestCryptoHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/encrypt", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", errorCode(t, w.Body.Bytes()))
	})

	t.Run("Success_EmptyPlaintextRoundTrip", func(t *testing.T) {
		key, err := contentkeyDomain.NewRawContentKey("kek-content-wrap", make([]byte, contentkeyDomain.KeySize))
		require.NoError(t, err)
		keys := &secretkeyMocks.MockSecretKeyManager{}
		keys.On("GetSecretKey", mock.Anything, "otus").Return(key, nil)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := NewCryptoHandler(
			textcipherUsecase.NewTextCipherUseCase(keys, textcipherService.NewTextCipher(), logger),
			logger,
		)

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/encrypt", dto.EncryptRequest{Plaintext: ""})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}
		handler.EncryptHandler(c)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var encrypted dto.EncryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &encrypted))
		raw, err := base64.StdEncoding.DecodeString(encrypted.Ciphertext)
		require.NoError(t, err)
		assert.Len(t, raw, textcipherDomain.MinMessageSize)

		c, w = createTestContext(
			http.MethodPost,
			"/v1/keys/otus/decrypt",
			dto.DecryptRequest{Ciphertext: encrypted.Ciphertext},
		)
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}
		handler.DecryptHandler(c)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"plaintext":""}`, w.Body.String())
	})

	t.Run("Error_InvalidKeyName", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("EncryptText", mock.Anything, "../etc", "hello-otus").
			Return("", secretkeyDomain.ErrInvalidKeyName).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/../etc/encrypt", dto.EncryptRequest{Plaintext: "hello-otus"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "../etc"}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", errorCode(t, w.Body.Bytes()))
	})

	t.Run("Error_KeyUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("EncryptText", mock.Anything, "otus", "hello-otus").
			Return("", apperrors.Join(secretkeyDomain.ErrKeyUnavailable, assert.AnError)).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/encrypt", dto.EncryptRequest{Plaintext: "hello-otus"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unavailable", errorCode(t, w.Body.Bytes()))
	})
}

func TestCryptoHandler_DecryptHandler(t *testing.T) {
	const ciphertext = "c2VhbGVkLW1lc3NhZ2U="

	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("DecryptText", mock.Anything, "otus", ciphertext).Return("hello-otus", nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/decrypt", dto.DecryptRequest{Ciphertext: ciphertext})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.DecryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "hello-otus", response.Plaintext)
	})

	t.Run("Error_EmptyName", func(t *testing.T) {
		handler, _ := setupTestCryptoHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys//decrypt", dto.DecryptRequest{Ciphertext: ciphertext})
		c.Params = gin.Params{gin.Param{Key: "name", Value: ""}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed_InvalidBase64", func(t *testing.T) {
		handler, _ := setupTestCryptoHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/decrypt", dto.DecryptRequest{Ciphertext: "not base64!"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", errorCode(t, w.Body.Bytes()))
	})

	t.Run("Error_AuthenticationFailure", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("DecryptText", mock.Anything, "otus", ciphertext).
			Return("", textcipherDomain.ErrAuthenticationFailure).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/decrypt", dto.DecryptRequest{Ciphertext: ciphertext})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", errorCode(t, w.Body.Bytes()))
		assert.NotContains(t, w.Body.String(), "hello-otus")
	})

	t.Run("Error_DecodeError", func(t *testing.T) {
		handler, mockUseCase := setupTestCryptoHandler(t)

		mockUseCase.On("DecryptText", mock.Anything, "otus", "AAAA").
			Return("", textcipherDomain.ErrDecode).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/keys/otus/decrypt", dto.DecryptRequest{Ciphertext: "AAAA"})
		c.Params = gin.Params{gin.Param{Key: "name", Value: "otus"}}

		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

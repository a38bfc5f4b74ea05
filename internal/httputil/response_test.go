package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/envelope/internal/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "key not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "authentication failure"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "invalid_input",
		},
		{
			name: "unavailable joined with cause",
			err: apperrors.Join(
				apperrors.Wrap(apperrors.ErrUnavailable, "key store failure"),
				errors.New("CKR_DEVICE_REMOVED"),
			),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "unavailable",
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
		})
	}

	t.Run("unavailable does not leak the cause", func(t *testing.T) {
		c, w := newContext()

		HandleErrorGin(c, apperrors.Join(apperrors.ErrUnavailable, errors.New("pin incorrect")), nil)

		assert.NotContains(t, w.Body.String(), "pin incorrect")
		assert.Equal(t, "5", w.Header().Get("Retry-After"))
	})

	t.Run("unavailable takes precedence over invalid input", func(t *testing.T) {
		c, w := newContext()

		HandleErrorGin(c, apperrors.Join(apperrors.ErrUnavailable, apperrors.ErrInvalidInput), nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("invalid input takes precedence over not found", func(t *testing.T) {
		c, w := newContext()

		HandleErrorGin(c, apperrors.Join(apperrors.ErrInvalidInput, apperrors.ErrNotFound), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, w.Header().Get("Retry-After"))
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newContext()

		HandleErrorGin(c, nil, logger)

		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newContext()

	HandleBadRequestGin(c, errors.New("invalid character 'i'"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "invalid character 'i'", response.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newContext()

	HandleValidationErrorGin(c, errors.New("plaintext: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w).Error)
}

// Package httputil writes JSON error responses for the Gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/envelope/internal/errors"
)

// unavailableRetryAfter is the Retry-After value, in seconds, sent with 503 responses.
const unavailableRetryAfter = "5"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	sentinel   error
	statusCode int
	code       string
	// message is sent to the client; empty means err.Error() is sent.
	message string
}

// errorMappings is checked in order; the first sentinel matching the error wins.
// ErrUnavailable comes first so a key that failed to load because its stored
// record is corrupt is still reported as 503.
var errorMappings = []errorMapping{
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "The key store is temporarily unavailable"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
}

var internalError = errorMapping{
	statusCode: http.StatusInternalServerError,
	code:       "internal_error",
	message:    "An internal error occurred",
}

func mapError(err error) (int, ErrorResponse) {
	mapping := internalError
	for _, m := range errorMappings {
		if apperrors.Is(err, m.sentinel) {
			mapping = m
			break
		}
	}

	message := mapping.message
	if message == "" {
		message = err.Error()
	}
	return mapping.statusCode, ErrorResponse{Error: mapping.code, Message: message}
}

// HandleErrorGin writes the status and body for a use case error. The full
// error chain is logged; the client only sees it for invalid input.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, response := mapError(err)

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	if statusCode == http.StatusServiceUnavailable {
		c.Header("Retry-After", unavailableRetryAfter)
	}
	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes 400 for a body or path that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin writes 422 for a request that parsed but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, statusCode int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("rejected request", slog.String("error_code", code), slog.Any("error", err))
	}
	c.JSON(statusCode, ErrorResponse{Error: code, Message: err.Error()})
}

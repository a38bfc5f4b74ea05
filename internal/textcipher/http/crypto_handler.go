// Package http provides HTTP handlers for text encryption under named secret keys.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envelope/internal/httputil"
	"github.com/allisson/envelope/internal/textcipher/http/dto"
	textcipherUsecase "github.com/allisson/envelope/internal/textcipher/usecase"
	customValidation "github.com/allisson/envelope/internal/validation"
)

// CryptoHandler handles HTTP requests for text encryption and decryption.
type CryptoHandler struct {
	textCipherUseCase textcipherUsecase.TextCipherUseCase
	logger            *slog.Logger
}

// NewCryptoHandler creates a new crypto handler with required dependencies.
func NewCryptoHandler(
	textCipherUseCase textcipherUsecase.TextCipherUseCase,
	logger *slog.Logger,
) *CryptoHandler {
	return &CryptoHandler{
		textCipherUseCase: textCipherUseCase,
		logger:            logger,
	}
}

// EncryptHandler encrypts text under the named key.
// POST /v1/keys/:name/encrypt
// Returns 200 OK with Base64(nonce || ciphertext || tag).
func (h *CryptoHandler) EncryptHandler(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("key name cannot be empty"), h.logger)
		return
	}

	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ciphertext, err := h.textCipherUseCase.EncryptText(c.Request.Context(), name, req.Plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: ciphertext})
}

// DecryptHandler verifies and decrypts a message produced by EncryptHandler.
// POST /v1/keys/:name/decrypt
// Tampered messages and messages from another key fail with 422.
func (h *CryptoHandler) DecryptHandler(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("key name cannot be empty"), h.logger)
		return
	}

	var req dto.DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.textCipherUseCase.DecryptText(c.Request.Context(), name, req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext})
}

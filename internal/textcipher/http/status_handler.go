package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
	"github.com/allisson/envelope/internal/textcipher/http/dto"
)

// StatusHandler reports the content key provider state.
type StatusHandler struct {
	provider contentkeyUsecase.Provider
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(provider contentkeyUsecase.Provider) *StatusHandler {
	return &StatusHandler{provider: provider}
}

// GetHandler returns the strategy, state and alias of the provider.
// GET /v1/keys/status
func (h *StatusHandler) GetHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MapProviderToStatusResponse(h.provider))
}

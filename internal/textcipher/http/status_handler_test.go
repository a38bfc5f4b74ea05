package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyMocks "github.com/allisson/envelope/internal/contentkey/usecase/mocks"
	"github.com/allisson/envelope/internal/textcipher/http/dto"
)

func TestStatusHandler_GetHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		strategy contentkeyDomain.Strategy
		state    contentkeyDomain.State
		expected dto.StatusResponse
	}{
		{
			name:     "hardware managed before first use",
			strategy: contentkeyDomain.StrategyHardwareManaged,
			state:    contentkeyDomain.StateUnprovisioned,
			expected: dto.StatusResponse{Strategy: "hardware-managed", State: "unprovisioned", Alias: "kek-content-wrap"},
		},
		{
			name:     "legacy wrapped ready",
			strategy: contentkeyDomain.StrategyLegacyWrapped,
			state:    contentkeyDomain.StateReady,
			expected: dto.StatusResponse{Strategy: "legacy-wrapped", State: "ready", Alias: "kek-content-wrap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &contentkeyMocks.MockProvider{}
			provider.On("Strategy").Return(tt.strategy)
			provider.On("State").Return(tt.state)
			provider.On("Alias").Return("kek-content-wrap")

			c, w := createTestContext(http.MethodGet, "/v1/keys/status", nil)

			NewStatusHandler(provider).GetHandler(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var response dto.StatusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expected, response)
		})
	}
}

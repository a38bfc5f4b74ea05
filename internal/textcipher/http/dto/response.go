package dto

import (
	contentkeyUsecase "github.com/allisson/envelope/internal/contentkey/usecase"
)

// EncryptResponse contains the result of an encryption operation.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// DecryptResponse contains the result of a decryption operation.
// SECURITY: The Plaintext field contains sensitive data and should be transmitted over HTTPS.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// StatusResponse describes the content key provider.
type StatusResponse struct {
	Strategy string `json:"strategy"`
	State    string `json:"state"`
	Alias    string `json:"alias"`
}

// MapProviderToStatusResponse converts a provider snapshot to an API response.
func MapProviderToStatusResponse(provider contentkeyUsecase.Provider) StatusResponse {
	return StatusResponse{
		Strategy: string(provider.Strategy()),
		State:    provider.State().String(),
		Alias:    provider.Alias(),
	}
}

// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/envelope/internal/validation"
)

// MaxPlaintextBytes caps the size of text accepted for encryption.
const MaxPlaintextBytes = 1 << 20

// EncryptRequest contains the text to encrypt.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"`
}

// Validate checks if the encrypt request is valid. Empty text is allowed.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext, customValidation.MaxBytes(MaxPlaintextBytes)),
	)
}

// DecryptRequest contains a Base64 encrypted message.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"` // Base64(nonce || ciphertext || tag)
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

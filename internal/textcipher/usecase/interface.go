// Package usecase encrypts and decrypts client text under a named secret key.
package usecase

import (
	"context"
)

// TextCipherUseCase encrypts strings into the Base64 wire format and back.
type TextCipherUseCase interface {
	// EncryptText encrypts plaintext under the key resolved for keyName and
	// returns Base64(nonce || ciphertext || tag).
	EncryptText(ctx context.Context, keyName, plaintext string) (string, error)

	// DecryptText reverses EncryptText.
	DecryptText(ctx context.Context, keyName, encoded string) (string, error)
}

// Package service implements authenticated text encryption under a content key.
package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	textcipherDomain "github.com/allisson/envelope/internal/textcipher/domain"
)

// AESGCMCipher encrypts with AES-GCM using a 12-byte random nonce per call and
// a 16-byte tag. The nonce is returned with the ciphertext so decryption never
// has to guess it.
//
// The cipher is stateless apart from the key and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates an AES-GCM cipher keyed by key.
func NewAESGCM(key contentkeyDomain.ContentKey) (*AESGCMCipher, error) {
	aead, err := key.NewAEAD()
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	if aead.NonceSize() != textcipherDomain.NonceSize || aead.Overhead() != textcipherDomain.TagSize {
		return nil, fmt.Errorf(
			"unexpected GCM parameters: nonce %d bytes, tag %d bytes",
			aead.NonceSize(),
			aead.Overhead(),
		)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh nonce.
func (a *AESGCMCipher) Encrypt(plaintext []byte) (*textcipherDomain.EncryptedMessage, error) {
	nonce := make([]byte, textcipherDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &textcipherDomain.EncryptedMessage{
		Nonce:      nonce,
		Ciphertext: a.aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Decrypt opens msg with the nonce it carries.
func (a *AESGCMCipher) Decrypt(msg *textcipherDomain.EncryptedMessage) ([]byte, error) {
	plaintext, err := a.aead.Open(nil, msg.Nonce, msg.Ciphertext, nil)
	if err != nil {
		return nil, textcipherDomain.ErrAuthenticationFailure
	}
	return plaintext, nil
}

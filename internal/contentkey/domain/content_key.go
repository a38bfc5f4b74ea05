// Package domain defines the content key models for envelope encryption.
//
// A content key is the AES-128 key that protects client text. It is either held
// by the key store (hardware-managed) or kept as raw bytes wrapped by an RSA
// key-encryption key (legacy-wrapped).
package domain

import (
	"crypto/aes"
	"crypto/cipher"

	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

// ContentKey is a provisioned AES-128 key ready for authenticated encryption.
type ContentKey interface {
	// Alias is the name the key was provisioned under.
	Alias() string
	// Strategy reports how the key is protected.
	Strategy() Strategy
	// NewAEAD returns an AES-GCM instance keyed by this content key.
	NewAEAD() (cipher.AEAD, error)
}

// RawContentKey is a content key whose bytes live in process memory.
type RawContentKey struct {
	alias string
	key   []byte
}

// NewRawContentKey copies key into a RawContentKey. The key must be 16 bytes.
func NewRawContentKey(alias string, key []byte) (*RawContentKey, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return &RawContentKey{alias: alias, key: append([]byte(nil), key...)}, nil
}

func (k *RawContentKey) Alias() string { return k.alias }

func (k *RawContentKey) Strategy() Strategy { return StrategyLegacyWrapped }

// Bytes returns a copy of the key material.
func (k *RawContentKey) Bytes() []byte {
	return append([]byte(nil), k.key...)
}

// NewAEAD returns AES-128-GCM with a 12-byte nonce and 16-byte tag.
func (k *RawContentKey) NewAEAD() (cipher.AEAD, error) {
	block, err := aes.NewCipher(k.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Close zeroes the key material.
func (k *RawContentKey) Close() {
	Zero(k.key)
}

// HardwareContentKey is a content key that never leaves the key store.
type HardwareContentKey struct {
	alias  string
	handle keystoreDomain.SecretKeyHandle
}

// NewHardwareContentKey wraps a key store handle.
func NewHardwareContentKey(alias string, handle keystoreDomain.SecretKeyHandle) *HardwareContentKey {
	return &HardwareContentKey{alias: alias, handle: handle}
}

func (k *HardwareContentKey) Alias() string { return k.alias }

func (k *HardwareContentKey) Strategy() Strategy { return StrategyHardwareManaged }

// NewAEAD returns a GCM instance whose operations run inside the key store.
func (k *HardwareContentKey) NewAEAD() (cipher.AEAD, error) {
	return k.handle.NewGCM()
}

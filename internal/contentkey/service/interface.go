// Package service provides the key wrapping primitive used by the legacy-wrapped strategy.
package service

import (
	"crypto"
	"crypto/rsa"
)

// KeyWrapper protects a content key under an asymmetric key-encryption key.
type KeyWrapper interface {
	// Wrap encrypts key with the KEK public key.
	Wrap(pub *rsa.PublicKey, key []byte) ([]byte, error)

	// Unwrap recovers the key with the KEK private key, which may be hardware resident.
	Unwrap(priv crypto.Decrypter, wrapped []byte) ([]byte, error)
}

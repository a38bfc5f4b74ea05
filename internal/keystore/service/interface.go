// Package service provides the secure key stores that hold key-encryption keys.
package service

import (
	"context"
	"crypto"
	"crypto/rsa"

	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

// KeyStore is a secure store of RSA key pairs, and optionally AES keys, by alias.
type KeyStore interface {
	// Capabilities reports whether the store is hardware backed and can hold AES keys.
	Capabilities() keystoreDomain.Capabilities

	// GetOrCreateKeyPair returns the pair stored under spec.Alias, generating it
	// together with a self-signed certificate when absent.
	GetOrCreateKeyPair(ctx context.Context, spec keystoreDomain.KeyPairSpec) (*keystoreDomain.KeyPair, error)

	// PublicKey returns the public half of the pair under alias, generating it if needed.
	PublicKey(ctx context.Context, alias string) (*rsa.PublicKey, error)

	// PrivateKey returns the private half of the pair under alias, generating it if needed.
	PrivateKey(ctx context.Context, alias string) (crypto.Decrypter, error)

	// GetOrCreateSecretKey returns a store-resident AES-128 key under alias.
	// Asymmetric-only stores return ErrSymmetricKeysUnsupported.
	GetOrCreateSecretKey(ctx context.Context, alias string) (keystoreDomain.SecretKeyHandle, error)

	// Close releases the store.
	Close() error
}

// Keeper seals and unseals small payloads. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

package service

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	apperrors "github.com/allisson/envelope/internal/errors"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

// RSAKeyWrapper wraps content keys with RSA PKCS#1 v1.5 encryption
// (RSA/ECB/PKCS1Padding). Records written by earlier deployments use this
// padding, so it cannot be swapped for OAEP without a migration.
//
// The wrapped output is always the modulus size: 256 bytes for a 2048-bit KEK.
type RSAKeyWrapper struct{}

// NewRSAKeyWrapper creates a new RSAKeyWrapper.
func NewRSAKeyWrapper() *RSAKeyWrapper {
	return &RSAKeyWrapper{}
}

// Wrap encrypts key under pub.
func (w *RSAKeyWrapper) Wrap(pub *rsa.PublicKey, key []byte) ([]byte, error) {
	if pub == nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, fmt.Errorf("missing public key"))
	}

	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, pub, key)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	return wrapped, nil
}

// Unwrap decrypts wrapped with priv. A nil DecrypterOpts selects PKCS#1 v1.5
// for both *rsa.PrivateKey and PKCS#11 keys.
func (w *RSAKeyWrapper) Unwrap(priv crypto.Decrypter, wrapped []byte) ([]byte, error) {
	if priv == nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, fmt.Errorf("missing private key"))
	}

	key, err := priv.Decrypt(rand.Reader, wrapped, nil)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	return key, nil
}

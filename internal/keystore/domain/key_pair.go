// Package domain defines the key-encryption key models held by a secure key store.
//
// A key store owns an RSA key pair per alias. The private half never leaves the
// store in plaintext: hardware stores hand out a crypto.Decrypter backed by the
// token, sealed stores keep the PEM bundle encrypted by a secrets keeper.
package domain

import (
	"crypto"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"
)

// Default KEK generation parameters.
const (
	DefaultAlias          = "kek-content-wrap"
	DefaultRSABits        = 2048
	DefaultValidityPeriod = 30 * 365 * 24 * time.Hour
	DefaultSerial         = 10
)

// KeyPairSpec describes how a KEK pair is generated on first use.
type KeyPairSpec struct {
	Alias          string
	ValidityPeriod time.Duration
	Serial         *big.Int
	Bits           int
}

// DefaultKeyPairSpec returns the spec used when only an alias is known.
func DefaultKeyPairSpec(alias string) KeyPairSpec {
	return KeyPairSpec{
		Alias:          alias,
		ValidityPeriod: DefaultValidityPeriod,
		Serial:         big.NewInt(DefaultSerial),
		Bits:           DefaultRSABits,
	}
}

// KeyPair is an RSA key-encryption key resolved from a key store.
type KeyPair struct {
	Alias       string
	Public      *rsa.PublicKey
	Private     crypto.Decrypter // Private half, opaque for hardware stores
	Certificate *x509.Certificate
}

// Capabilities advertises what a key store can do.
type Capabilities struct {
	HardwareBacked bool // Keys live in tamper-resistant hardware
	SymmetricKeys  bool // The store can generate and use AES keys directly
}

// SecretKeyHandle is a symmetric key that stays inside the key store.
type SecretKeyHandle interface {
	NewGCM() (cipher.AEAD, error)
}

// NewSelfSignedCertificate issues the certificate stored next to a KEK pair.
// The subject is CN=<alias> and the validity window starts at now.
func NewSelfSignedCertificate(
	spec KeyPairSpec,
	pub *rsa.PublicKey,
	signer crypto.Signer,
	now time.Time,
) (*x509.Certificate, error) {
	serial := spec.Serial
	if serial == nil {
		serial = big.NewInt(DefaultSerial)
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: spec.Alias},
		Issuer:                pkix.Name{CommonName: spec.Alias},
		NotBefore:             now,
		NotAfter:              now.Add(spec.ValidityPeriod),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, signer)
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

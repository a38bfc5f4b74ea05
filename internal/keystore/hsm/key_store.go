// Package hsm implements a key store on a PKCS#11 token (SoftHSM, YubiHSM, cloud HSM).
//
// Key material is generated on the token and never exported. Objects are
// located by label (the alias) and created with a UUIDv7 CKA_ID.
package hsm

import (
	"context"
	"crypto"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ThalesGroup/crypto11"
	"github.com/google/uuid"

	apperrors "github.com/allisson/envelope/internal/errors"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

// secretKeyLabelSuffix keeps AES keys and RSA pairs under one alias apart.
const secretKeyLabelSuffix = ".aes"

// Config holds the PKCS#11 connection parameters.
type Config struct {
	Library    string
	TokenLabel string
	Pin        string
}

// KeyStore is a PKCS#11 backed key store. It supports RSA pairs and AES keys.
type KeyStore struct {
	ctx      *crypto11.Context
	defaults keystoreDomain.KeyPairSpec
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// New opens a session pool on the configured token.
func New(cfg Config, defaults keystoreDomain.KeyPairSpec, logger *slog.Logger) (*KeyStore, error) {
	ctx, err := crypto11.Configure(&crypto11.Config{
		Path:       cfg.Library,
		TokenLabel: cfg.TokenLabel,
		Pin:        cfg.Pin,
	})
	if err != nil {
		return nil, apperrors.Join(
			keystoreDomain.ErrKeyStoreFailure,
			fmt.Errorf("failed to configure PKCS#11 context: %w", err),
		)
	}

	return &KeyStore{
		ctx:      ctx,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Capabilities reports a hardware store with symmetric key support.
func (k *KeyStore) Capabilities() keystoreDomain.Capabilities {
	return keystoreDomain.Capabilities{HardwareBacked: true, SymmetricKeys: true}
}

// GetOrCreateKeyPair finds the RSA pair labelled spec.Alias or generates it on the token.
func (k *KeyStore) GetOrCreateKeyPair(
	ctx context.Context,
	spec keystoreDomain.KeyPairSpec,
) (*keystoreDomain.KeyPair, error) {
	if strings.TrimSpace(spec.Alias) == "" {
		return nil, keystoreDomain.ErrInvalidAlias
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	label := []byte(spec.Alias)

	signer, err := k.ctx.FindKeyPair(nil, label)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	if signer != nil {
		return k.resolvePair(spec.Alias, signer)
	}

	return k.generatePair(spec)
}

// PublicKey returns the public half of the pair under alias.
func (k *KeyStore) PublicKey(ctx context.Context, alias string) (*rsa.PublicKey, error) {
	pair, err := k.GetOrCreateKeyPair(ctx, k.specFor(alias))
	if err != nil {
		return nil, err
	}
	return pair.Public, nil
}

// PrivateKey returns a token-resident decrypter for the pair under alias.
func (k *KeyStore) PrivateKey(ctx context.Context, alias string) (crypto.Decrypter, error) {
	pair, err := k.GetOrCreateKeyPair(ctx, k.specFor(alias))
	if err != nil {
		return nil, err
	}
	return pair.Private, nil
}

// GetOrCreateSecretKey finds or generates an AES-128 key on the token.
func (k *KeyStore) GetOrCreateSecretKey(
	ctx context.Context,
	alias string,
) (keystoreDomain.SecretKeyHandle, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, keystoreDomain.ErrInvalidAlias
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	label := []byte(alias + secretKeyLabelSuffix)

	key, err := k.ctx.FindKey(nil, label)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	if key != nil {
		return key, nil
	}

	id, err := newObjectID()
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	key, err = k.ctx.GenerateSecretKeyWithLabel(id, label, 128, crypto11.CipherAES)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	k.logger.Info("generated secret key on token", slog.String("alias", alias))
	return key, nil
}

// Close releases the session pool.
func (k *KeyStore) Close() error {
	return k.ctx.Close()
}

func (k *KeyStore) specFor(alias string) keystoreDomain.KeyPairSpec {
	spec := k.defaults
	spec.Alias = alias
	return spec
}

func (k *KeyStore) resolvePair(alias string, signer crypto11.Signer) (*keystoreDomain.KeyPair, error) {
	pub, ok := signer.Public().(*rsa.PublicKey)
	if !ok {
		return nil, apperrors.Join(
			keystoreDomain.ErrKeyStoreFailure,
			fmt.Errorf("key pair %q is not RSA", alias),
		)
	}

	decrypter, ok := signer.(crypto.Decrypter)
	if !ok {
		return nil, apperrors.Join(
			keystoreDomain.ErrKeyStoreFailure,
			fmt.Errorf("key pair %q cannot decrypt", alias),
		)
	}

	cert, err := k.ctx.FindCertificate(nil, []byte(alias), nil)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	return &keystoreDomain.KeyPair{
		Alias:       alias,
		Public:      pub,
		Private:     decrypter,
		Certificate: cert,
	}, nil
}

func (k *KeyStore) generatePair(spec keystoreDomain.KeyPairSpec) (*keystoreDomain.KeyPair, error) {
	bits := spec.Bits
	if bits == 0 {
		bits = keystoreDomain.DefaultRSABits
	}

	id, err := newObjectID()
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	label := []byte(spec.Alias)

	signer, err := k.ctx.GenerateRSAKeyPairWithLabel(id, label, bits)
	if err != nil {
		return nil, apperrors.Join(
			keystoreDomain.ErrKeyStoreFailure,
			fmt.Errorf("failed to generate RSA key: %w", err),
		)
	}

	pub, ok := signer.Public().(*rsa.PublicKey)
	if !ok {
		return nil, apperrors.Join(
			keystoreDomain.ErrKeyStoreFailure,
			fmt.Errorf("generated key %q is not RSA", spec.Alias),
		)
	}

	cert, err := keystoreDomain.NewSelfSignedCertificate(spec, pub, signer, k.now())
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	if err := k.ctx.ImportCertificateWithLabel(id, label, cert); err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	k.logger.Info("generated key pair on token",
		slog.String("alias", spec.Alias),
		slog.Int("bits", bits),
		slog.String("serial", cert.SerialNumber.String()),
	)

	return &keystoreDomain.KeyPair{
		Alias:       spec.Alias,
		Public:      pub,
		Private:     signer,
		Certificate: cert,
	}, nil
}

func newObjectID() ([]byte, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return id[:], nil
}

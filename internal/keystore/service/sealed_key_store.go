package service

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Register bucket drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	apperrors "github.com/allisson/envelope/internal/errors"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

const (
	sealedKeyPairPrefix = "keypairs/"
	sealedKeyPairSuffix = ".pem.sealed"

	pemTypePrivateKey  = "PRIVATE KEY"
	pemTypeCertificate = "CERTIFICATE"
)

// SealedKeyStore keeps KEK pairs as keeper-sealed PEM bundles in a bucket.
// It is used on hosts without secure hardware and cannot hold AES keys.
type SealedKeyStore struct {
	bucket   *blob.Bucket
	keeper   Keeper
	defaults keystoreDomain.KeyPairSpec
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	pairs map[string]*keystoreDomain.KeyPair
}

// NewSealedKeyStore creates a SealedKeyStore. defaults supplies the generation
// parameters used by PublicKey and PrivateKey; its Alias is ignored.
func NewSealedKeyStore(
	bucket *blob.Bucket,
	keeper Keeper,
	defaults keystoreDomain.KeyPairSpec,
	logger *slog.Logger,
) *SealedKeyStore {
	return &SealedKeyStore{
		bucket:   bucket,
		keeper:   keeper,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
		pairs:    make(map[string]*keystoreDomain.KeyPair),
	}
}

// OpenSealedKeyStore opens the bucket and keeper by URL and builds a SealedKeyStore.
func OpenSealedKeyStore(
	ctx context.Context,
	bucketURL string,
	keeper Keeper,
	defaults keystoreDomain.KeyPairSpec,
	logger *slog.Logger,
) (*SealedKeyStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	return NewSealedKeyStore(bucket, keeper, defaults, logger), nil
}

// Capabilities reports an asymmetric-only software store.
func (s *SealedKeyStore) Capabilities() keystoreDomain.Capabilities {
	return keystoreDomain.Capabilities{HardwareBacked: false, SymmetricKeys: false}
}

// GetOrCreateKeyPair loads the sealed pair for spec.Alias or generates and seals a new one.
func (s *SealedKeyStore) GetOrCreateKeyPair(
	ctx context.Context,
	spec keystoreDomain.KeyPairSpec,
) (*keystoreDomain.KeyPair, error) {
	if strings.TrimSpace(spec.Alias) == "" {
		return nil, keystoreDomain.ErrInvalidAlias
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pair, ok := s.pairs[spec.Alias]; ok {
		return pair, nil
	}

	pair, err := s.load(ctx, spec.Alias)
	if apperrors.Is(err, keystoreDomain.ErrKeyNotFound) {
		pair, err = s.generate(ctx, spec)
	}
	if err != nil {
		return nil, err
	}

	s.pairs[spec.Alias] = pair
	return pair, nil
}

// PublicKey returns the public half of the pair under alias.
func (s *SealedKeyStore) PublicKey(ctx context.Context, alias string) (*rsa.PublicKey, error) {
	pair, err := s.GetOrCreateKeyPair(ctx, s.specFor(alias))
	if err != nil {
		return nil, err
	}
	return pair.Public, nil
}

// PrivateKey returns the private half of the pair under alias.
func (s *SealedKeyStore) PrivateKey(ctx context.Context, alias string) (crypto.Decrypter, error) {
	pair, err := s.GetOrCreateKeyPair(ctx, s.specFor(alias))
	if err != nil {
		return nil, err
	}
	return pair.Private, nil
}

// GetOrCreateSecretKey is not supported by sealed stores.
func (s *SealedKeyStore) GetOrCreateSecretKey(
	ctx context.Context,
	alias string,
) (keystoreDomain.SecretKeyHandle, error) {
	return nil, keystoreDomain.ErrSymmetricKeysUnsupported
}

// Close drops cached pairs and closes the bucket and keeper.
func (s *SealedKeyStore) Close() error {
	s.mu.Lock()
	clear(s.pairs)
	s.mu.Unlock()

	bucketErr := s.bucket.Close()
	keeperErr := s.keeper.Close()
	if bucketErr != nil {
		return bucketErr
	}
	return keeperErr
}

func (s *SealedKeyStore) specFor(alias string) keystoreDomain.KeyPairSpec {
	spec := s.defaults
	spec.Alias = alias
	return spec
}

func (s *SealedKeyStore) load(ctx context.Context, alias string) (*keystoreDomain.KeyPair, error) {
	sealed, err := s.bucket.ReadAll(ctx, objectKey(alias))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, keystoreDomain.ErrKeyNotFound
		}
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	bundle, err := s.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	pair, err := decodeBundle(alias, bundle)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}
	return pair, nil
}

func (s *SealedKeyStore) generate(
	ctx context.Context,
	spec keystoreDomain.KeyPairSpec,
) (*keystoreDomain.KeyPair, error) {
	bits := spec.Bits
	if bits == 0 {
		bits = keystoreDomain.DefaultRSABits
	}

	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	cert, err := keystoreDomain.NewSelfSignedCertificate(spec, &priv.PublicKey, priv, s.now())
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	bundle, err := encodeBundle(priv, cert)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	sealed, err := s.keeper.Encrypt(ctx, bundle)
	if err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	if err := s.bucket.WriteAll(ctx, objectKey(spec.Alias), sealed, &blob.WriterOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	s.logger.Info("generated key pair",
		slog.String("alias", spec.Alias),
		slog.Int("bits", bits),
		slog.String("serial", cert.SerialNumber.String()),
		slog.Time("not_after", cert.NotAfter),
	)

	return &keystoreDomain.KeyPair{
		Alias:       spec.Alias,
		Public:      &priv.PublicKey,
		Private:     priv,
		Certificate: cert,
	}, nil
}

func objectKey(alias string) string {
	return sealedKeyPairPrefix + alias + sealedKeyPairSuffix
}

func encodeBundle(priv *rsa.PrivateKey, cert *x509.Certificate) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}

	var out []byte
	out = append(out, pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der})...)
	out = append(out, pem.EncodeToMemory(&pem.Block{Type: pemTypeCertificate, Bytes: cert.Raw})...)
	return out, nil
}

func decodeBundle(alias string, bundle []byte) (*keystoreDomain.KeyPair, error) {
	pair := &keystoreDomain.KeyPair{Alias: alias}

	for {
		var block *pem.Block
		block, bundle = pem.Decode(bundle)
		if block == nil {
			break
		}

		switch block.Type {
		case pemTypePrivateKey:
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, err
			}
			priv, ok := key.(*rsa.PrivateKey)
			if !ok {
				return nil, fmt.Errorf("unexpected private key type %T", key)
			}
			pair.Private = priv
			pair.Public = &priv.PublicKey
		case pemTypeCertificate:
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, err
			}
			pair.Certificate = cert
		}
	}

	if pair.Private == nil || pair.Certificate == nil {
		return nil, fmt.Errorf("incomplete key pair bundle for %q", alias)
	}
	return pair, nil
}

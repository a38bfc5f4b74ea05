package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	contentkeyService "github.com/allisson/envelope/internal/contentkey/service"
	apperrors "github.com/allisson/envelope/internal/errors"
	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
	keystoreService "github.com/allisson/envelope/internal/keystore/service"
)

// legacyWrapped provisions a raw AES-128 key wrapped under the KEK pair and
// persisted in a blob store.
type legacyWrapped struct {
	alias    string
	keyStore keystoreService.KeyStore
	wrapper  contentkeyService.KeyWrapper
	blobs    BlobStore
	random   io.Reader
}

// NewLegacyWrappedProvider returns a provider for key stores without symmetric key support.
func NewLegacyWrappedProvider(
	alias string,
	keyStore keystoreService.KeyStore,
	wrapper contentkeyService.KeyWrapper,
	blobs BlobStore,
	logger *slog.Logger,
) Provider {
	l := &legacyWrapped{
		alias:    alias,
		keyStore: keyStore,
		wrapper:  wrapper,
		blobs:    blobs,
		random:   rand.Reader,
	}
	return newProvider(alias, contentkeyDomain.StrategyLegacyWrapped, l.provision, logger)
}

func (l *legacyWrapped) provision(
	ctx context.Context,
	logger *slog.Logger,
) (contentkeyDomain.ContentKey, error) {
	encoded, err := l.blobs.Get(ctx, contentkeyDomain.WrappedKeyStore, contentkeyDomain.WrappedKeyName)
	switch {
	case err == nil:
		return l.unwrap(ctx, encoded)
	case apperrors.Is(err, contentkeyDomain.ErrBlobNotFound):
		logger.Info("no wrapped content key found, generating")
		return l.generate(ctx)
	default:
		return nil, err
	}
}

func (l *legacyWrapped) unwrap(ctx context.Context, encoded string) (contentkeyDomain.ContentKey, error) {
	record, err := contentkeyDomain.DecodeWrappedKeyRecord(l.alias, encoded)
	if err != nil {
		return nil, err
	}

	priv, err := l.keyStore.PrivateKey(ctx, l.alias)
	if err != nil {
		return nil, err
	}

	material, err := l.wrapper.Unwrap(priv, record.Ciphertext)
	if err != nil {
		return nil, err
	}
	defer contentkeyDomain.Zero(material)

	return newRawContentKey(l.alias, material)
}

func (l *legacyWrapped) generate(ctx context.Context) (contentkeyDomain.ContentKey, error) {
	material := make([]byte, contentkeyDomain.KeySize)
	defer contentkeyDomain.Zero(material)

	if _, err := io.ReadFull(l.random, material); err != nil {
		return nil, apperrors.Join(keystoreDomain.ErrKeyStoreFailure, err)
	}

	pub, err := l.keyStore.PublicKey(ctx, l.alias)
	if err != nil {
		return nil, err
	}

	wrapped, err := l.wrapper.Wrap(pub, material)
	if err != nil {
		return nil, err
	}

	record := &contentkeyDomain.WrappedKeyRecord{Alias: l.alias, Ciphertext: wrapped}
	if err := l.blobs.Put(
		ctx,
		contentkeyDomain.WrappedKeyStore,
		contentkeyDomain.WrappedKeyName,
		record.Encode(),
	); err != nil {
		return nil, err
	}

	return newRawContentKey(l.alias, material)
}

func newRawContentKey(alias string, material []byte) (contentkeyDomain.ContentKey, error) {
	key, err := contentkeyDomain.NewRawContentKey(alias, material)
	if err != nil {
		return nil, err
	}
	return key, nil
}

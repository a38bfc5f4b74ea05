package hsm

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keystoreDomain "github.com/allisson/envelope/internal/keystore/domain"
)

// openTestKeyStore connects to SoftHSM when PKCS11_LIBRARY is set.
//
//	softhsm2-util --init-token --free --label envelope --pin 1234 --so-pin 1234
//	PKCS11_LIBRARY=/usr/lib/softhsm/libsofthsm2.so PKCS11_TOKEN_LABEL=envelope PKCS11_PIN=1234 go test ./internal/keystore/hsm/...
func openTestKeyStore(t *testing.T) *KeyStore {
	t.Helper()

	library := os.Getenv("PKCS11_LIBRARY")
	if library == "" {
		t.Skip("PKCS11_LIBRARY not set, skipping PKCS#11 tests")
	}

	store, err := New(Config{
		Library:    library,
		TokenLabel: os.Getenv("PKCS11_TOKEN_LABEL"),
		Pin:        os.Getenv("PKCS11_PIN"),
	}, keystoreDomain.DefaultKeyPairSpec(""), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func uniqueAlias(t *testing.T) string {
	t.Helper()
	return "test-" + uuid.Must(uuid.NewV7()).String()
}

func TestKeyStore_Capabilities(t *testing.T) {
	store := openTestKeyStore(t)

	caps := store.Capabilities()
	assert.True(t, caps.HardwareBacked)
	assert.True(t, caps.SymmetricKeys)
}

func TestKeyStore_GetOrCreateKeyPair(t *testing.T) {
	store := openTestKeyStore(t)
	ctx := context.Background()
	alias := uniqueAlias(t)

	first, err := store.GetOrCreateKeyPair(ctx, keystoreDomain.DefaultKeyPairSpec(alias))
	require.NoError(t, err)
	assert.Equal(t, 2048, first.Public.N.BitLen())
	assert.Equal(t, alias, first.Certificate.Subject.CommonName)
	assert.Equal(t, int64(10), first.Certificate.SerialNumber.Int64())

	second, err := store.GetOrCreateKeyPair(ctx, keystoreDomain.DefaultKeyPairSpec(alias))
	require.NoError(t, err)
	assert.True(t, first.Public.Equal(second.Public))

	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, second.Public, []byte("0123456789abcdef"))
	require.NoError(t, err)
	assert.Len(t, wrapped, 256)

	plain, err := second.Private.Decrypt(rand.Reader, wrapped, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcdef"), plain)
}

func TestKeyStore_GetOrCreateSecretKey(t *testing.T) {
	store := openTestKeyStore(t)
	ctx := context.Background()
	alias := uniqueAlias(t)

	first, err := store.GetOrCreateSecretKey(ctx, alias)
	require.NoError(t, err)
	second, err := store.GetOrCreateSecretKey(ctx, alias)
	require.NoError(t, err)

	sealer, err := first.NewGCM()
	require.NoError(t, err)
	opener, err := second.NewGCM()
	require.NoError(t, err)

	nonce := make([]byte, sealer.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	ct := sealer.Seal(nil, nonce, []byte("hello-otus"), nil)
	pt, err := opener.Open(nil, nonce, ct, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello-otus"), pt)
}

func TestKeyStore_InvalidAlias(t *testing.T) {
	store := openTestKeyStore(t)

	_, err := store.GetOrCreateKeyPair(context.Background(), keystoreDomain.DefaultKeyPairSpec(""))
	assert.ErrorIs(t, err, keystoreDomain.ErrInvalidAlias)

	_, err = store.GetOrCreateSecretKey(context.Background(), " ")
	assert.ErrorIs(t, err, keystoreDomain.ErrInvalidAlias)
}

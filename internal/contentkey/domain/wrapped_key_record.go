package domain

import (
	"encoding/base64"
	"strings"

	"github.com/allisson/envelope/internal/errors"
)

// WrappedKeyRecord is the persisted form of a legacy-wrapped content key:
// the RSA PKCS#1 v1.5 ciphertext of the 16 key bytes under the KEK.
type WrappedKeyRecord struct {
	Alias      string
	Ciphertext []byte
}

// Encode returns the standard Base64 form written to the blob store.
func (r *WrappedKeyRecord) Encode() string {
	return base64.StdEncoding.EncodeToString(r.Ciphertext)
}

// DecodeWrappedKeyRecord parses the Base64 value read from the blob store.
func DecodeWrappedKeyRecord(alias, encoded string) (*WrappedKeyRecord, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if len(ciphertext) == 0 {
		return nil, ErrDecode
	}
	return &WrappedKeyRecord{Alias: alias, Ciphertext: ciphertext}, nil
}

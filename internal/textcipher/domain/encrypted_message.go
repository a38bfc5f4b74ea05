// Package domain defines the wire format of text encrypted under a content key.
package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16
	// MinMessageSize is the length of an encrypted empty plaintext.
	MinMessageSize = NonceSize + TagSize
)

// EncryptedMessage is AES-GCM output with the nonce that produced it.
//
// Wire format: nonce (12 bytes) || ciphertext || tag (16 bytes), Base64
// encoded with the standard alphabet for transport.
type EncryptedMessage struct {
	Nonce      []byte
	Ciphertext []byte // Ciphertext with the tag appended
}

// Bytes returns the raw nonce || ciphertext || tag encoding.
func (m *EncryptedMessage) Bytes() []byte {
	out := make([]byte, 0, len(m.Nonce)+len(m.Ciphertext))
	out = append(out, m.Nonce...)
	return append(out, m.Ciphertext...)
}

// String returns the Base64 transport encoding.
func (m *EncryptedMessage) String() string {
	return base64.StdEncoding.EncodeToString(m.Bytes())
}

// ParseEncryptedMessage splits raw bytes into nonce and ciphertext.
// Returns ErrDecode when raw cannot hold a nonce and a tag.
func ParseEncryptedMessage(raw []byte) (*EncryptedMessage, error) {
	if len(raw) < MinMessageSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrDecode, len(raw), MinMessageSize)
	}

	return &EncryptedMessage{
		Nonce:      append([]byte(nil), raw[:NonceSize]...),
		Ciphertext: append([]byte(nil), raw[NonceSize:]...),
	}, nil
}

// DecodeEncryptedMessage parses the Base64 transport encoding.
func DecodeEncryptedMessage(encoded string) (*EncryptedMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return ParseEncryptedMessage(raw)
}

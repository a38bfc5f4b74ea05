package service

import (
	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	textcipherDomain "github.com/allisson/envelope/internal/textcipher/domain"
)

// TextCipher encrypts and decrypts byte strings under a content key.
type TextCipher interface {
	// Encrypt returns nonce || ciphertext || tag for plaintext.
	Encrypt(key contentkeyDomain.ContentKey, plaintext []byte) (*textcipherDomain.EncryptedMessage, error)

	// Decrypt verifies and opens an encoded message produced by Encrypt.
	// It returns ErrDecode for input shorter than 28 bytes and
	// ErrAuthenticationFailure when the tag does not verify.
	Decrypt(key contentkeyDomain.ContentKey, encoded []byte) ([]byte, error)
}

type textCipher struct{}

// NewTextCipher creates a TextCipher.
func NewTextCipher() TextCipher {
	return &textCipher{}
}

func (t *textCipher) Encrypt(
	key contentkeyDomain.ContentKey,
	plaintext []byte,
) (*textcipherDomain.EncryptedMessage, error) {
	c, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext)
}

func (t *textCipher) Decrypt(key contentkeyDomain.ContentKey, encoded []byte) ([]byte, error) {
	msg, err := textcipherDomain.ParseEncryptedMessage(encoded)
	if err != nil {
		return nil, err
	}

	c, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(msg)
}

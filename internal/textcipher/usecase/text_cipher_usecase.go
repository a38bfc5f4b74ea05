package usecase

import (
	"context"
	"fmt"
	"log/slog"

	secretkeyUsecase "github.com/allisson/envelope/internal/secretkey/usecase"
	textcipherDomain "github.com/allisson/envelope/internal/textcipher/domain"
	textcipherService "github.com/allisson/envelope/internal/textcipher/service"
)

type textCipherUseCase struct {
	keys   secretkeyUsecase.SecretKeyManager
	cipher textcipherService.TextCipher
	logger *slog.Logger
}

// NewTextCipherUseCase creates a TextCipherUseCase.
func NewTextCipherUseCase(
	keys secretkeyUsecase.SecretKeyManager,
	cipher textcipherService.TextCipher,
	logger *slog.Logger,
) TextCipherUseCase {
	return &textCipherUseCase{
		keys:   keys,
		cipher: cipher,
		logger: logger,
	}
}

func (t *textCipherUseCase) EncryptText(ctx context.Context, keyName, plaintext string) (string, error) {
	key, err := t.keys.GetSecretKey(ctx, keyName)
	if err != nil {
		return "", err
	}

	msg, err := t.cipher.Encrypt(key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt text: %w", err)
	}

	return msg.String(), nil
}

func (t *textCipherUseCase) DecryptText(ctx context.Context, keyName, encoded string) (string, error) {
	// Malformed input is rejected before the content key is touched.
	msg, err := textcipherDomain.DecodeEncryptedMessage(encoded)
	if err != nil {
		return "", err
	}

	key, err := t.keys.GetSecretKey(ctx, keyName)
	if err != nil {
		return "", err
	}

	plaintext, err := t.cipher.Decrypt(key, msg.Bytes())
	if err != nil {
		t.logger.Debug("text decryption rejected",
			slog.String("key_name", keyName),
			slog.Any("error", err),
		)
		return "", err
	}

	return string(plaintext), nil
}

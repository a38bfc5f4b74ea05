package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	textcipherUsecase "github.com/allisson/envelope/internal/textcipher/usecase"
)

// RunEncrypt encrypts text under keyName and writes the Base64 ciphertext to writer.
func RunEncrypt(
	ctx context.Context,
	useCase textcipherUsecase.TextCipherUseCase,
	logger *slog.Logger,
	writer io.Writer,
	keyName string,
	text string,
) error {
	logger.Info("encrypting text", slog.String("key_name", keyName))

	ciphertext, err := useCase.EncryptText(ctx, keyName, text)
	if err != nil {
		return fmt.Errorf("failed to encrypt text: %w", err)
	}

	_, _ = fmt.Fprintln(writer, ciphertext)
	return nil
}

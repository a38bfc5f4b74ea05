package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	textcipherUsecase "github.com/allisson/envelope/internal/textcipher/usecase"
)

// RunDecrypt decrypts a Base64 ciphertext under keyName and writes the plaintext to writer.
func RunDecrypt(
	ctx context.Context,
	useCase textcipherUsecase.TextCipherUseCase,
	logger *slog.Logger,
	writer io.Writer,
	keyName string,
	ciphertext string,
) error {
	logger.Info("decrypting text", slog.String("key_name", keyName))

	plaintext, err := useCase.DecryptText(ctx, keyName, ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decrypt text: %w", err)
	}

	_, _ = fmt.Fprintln(writer, plaintext)
	return nil
}

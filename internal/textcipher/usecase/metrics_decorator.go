package usecase

import (
	"context"
	"time"

	"github.com/allisson/envelope/internal/metrics"
)

// textCipherUseCaseWithMetrics decorates TextCipherUseCase with metrics instrumentation.
type textCipherUseCaseWithMetrics struct {
	next    TextCipherUseCase
	metrics metrics.BusinessMetrics
}

// NewTextCipherUseCaseWithMetrics wraps a TextCipherUseCase with metrics recording.
func NewTextCipherUseCaseWithMetrics(useCase TextCipherUseCase, m metrics.BusinessMetrics) TextCipherUseCase {
	return &textCipherUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// EncryptText records metrics for text encryption.
func (t *textCipherUseCaseWithMetrics) EncryptText(ctx context.Context, keyName, plaintext string) (string, error) {
	start := time.Now()
	encoded, err := t.next.EncryptText(ctx, keyName, plaintext)
	t.record(ctx, "encrypt", start, err)
	return encoded, err
}

// DecryptText records metrics for text decryption.
func (t *textCipherUseCaseWithMetrics) DecryptText(ctx context.Context, keyName, encoded string) (string, error) {
	start := time.Now()
	plaintext, err := t.next.DecryptText(ctx, keyName, encoded)
	t.record(ctx, "decrypt", start, err)
	return plaintext, err
}

func (t *textCipherUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "textcipher", operation, status)
	t.metrics.RecordDuration(ctx, "textcipher", operation, time.Since(start), status)
}

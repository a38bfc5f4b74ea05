package usecase

import (
	"context"
	"time"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	"github.com/allisson/envelope/internal/metrics"
)

// secretKeyManagerWithMetrics decorates SecretKeyManager with metrics instrumentation.
type secretKeyManagerWithMetrics struct {
	next    SecretKeyManager
	metrics metrics.BusinessMetrics
}

// NewSecretKeyManagerWithMetrics wraps a SecretKeyManager with metrics recording.
func NewSecretKeyManagerWithMetrics(manager SecretKeyManager, m metrics.BusinessMetrics) SecretKeyManager {
	return &secretKeyManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// GetSecretKey records metrics for secret key lookups.
func (s *secretKeyManagerWithMetrics) GetSecretKey(
	ctx context.Context,
	name string,
) (contentkeyDomain.ContentKey, error) {
	start := time.Now()
	key, err := s.next.GetSecretKey(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secretkey", "get_secret_key", status)
	s.metrics.RecordDuration(ctx, "secretkey", "get_secret_key", time.Since(start), status)

	return key, err
}

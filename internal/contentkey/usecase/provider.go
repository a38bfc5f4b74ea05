// Package usecase implements content key provisioning.
//
// A provider moves from Unprovisioned through Provisioning to Ready exactly
// once per process. Concurrent first callers join a single attempt; a failed
// attempt returns the provider to Unprovisioned so the next call starts over.
package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
)

// provisionFunc produces the content key for alias. It runs at most once at a time.
type provisionFunc func(ctx context.Context, logger *slog.Logger) (contentkeyDomain.ContentKey, error)

type provider struct {
	alias     string
	strategy  contentkeyDomain.Strategy
	provision provisionFunc
	logger    *slog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	state contentkeyDomain.State
	key   contentkeyDomain.ContentKey
}

func newProvider(
	alias string,
	strategy contentkeyDomain.Strategy,
	provision provisionFunc,
	logger *slog.Logger,
) *provider {
	return &provider{
		alias:     alias,
		strategy:  strategy,
		provision: provision,
		logger:    logger,
		state:     contentkeyDomain.StateUnprovisioned,
	}
}

// SecretKey returns the provisioned content key, provisioning it if needed.
// A caller whose ctx ends while waiting gets ctx.Err(); the shared attempt keeps going.
func (p *provider) SecretKey(ctx context.Context) (contentkeyDomain.ContentKey, error) {
	if key, ok := p.ready(); ok {
		return key, nil
	}

	ch := p.group.DoChan(p.alias, func() (any, error) {
		return p.provisionOnce(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(contentkeyDomain.ContentKey), nil
	}
}

// State reports the provisioning state.
func (p *provider) State() contentkeyDomain.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Strategy reports how the content key is protected.
func (p *provider) Strategy() contentkeyDomain.Strategy {
	return p.strategy
}

// Alias returns the content key alias.
func (p *provider) Alias() string {
	return p.alias
}

// Close zeroes a raw content key held in memory. Hardware keys stay on the token.
func (p *provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if raw, ok := p.key.(*contentkeyDomain.RawContentKey); ok {
		raw.Close()
	}
	p.key = nil
	p.state = contentkeyDomain.StateUnprovisioned
	return nil
}

func (p *provider) ready() (contentkeyDomain.ContentKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == contentkeyDomain.StateReady {
		return p.key, true
	}
	return nil, false
}

func (p *provider) provisionOnce(ctx context.Context) (contentkeyDomain.ContentKey, error) {
	// A caller may have missed the fast path just as the previous attempt finished.
	if key, ok := p.ready(); ok {
		return key, nil
	}

	p.mu.Lock()
	p.state = contentkeyDomain.StateProvisioning
	p.mu.Unlock()

	attemptID := uuid.Must(uuid.NewV7()).String()
	logger := p.logger.With(
		slog.String("alias", p.alias),
		slog.String("strategy", string(p.strategy)),
		slog.String("attempt_id", attemptID),
	)
	logger.Info("provisioning content key")

	key, err := p.provision(ctx, logger)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = contentkeyDomain.StateUnprovisioned
		logger.Error("content key provisioning failed", slog.Any("error", err))
		return nil, err
	}

	p.key = key
	p.state = contentkeyDomain.StateReady
	logger.Info("content key ready")
	return key, nil
}

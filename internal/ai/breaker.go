package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker wrapped around a provider.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
	CallTimeout time.Duration
}

// breakerProvider fails fast once a provider keeps failing, and bounds
// every call with CallTimeout.
type breakerProvider struct {
	inner       Provider
	breaker     *gobreaker.CircuitBreaker
	callTimeout time.Duration
}

// WithBreaker wraps p in a circuit breaker. Every failure it returns wraps
// apperrors.ErrProviderUnavailable.
func WithBreaker(p Provider, cfg BreakerConfig) Provider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "ai-" + p.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Default().Warn("AI provider circuit breaker changed state",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &breakerProvider{
		inner:       p,
		breaker:     gobreaker.NewCircuitBreaker(settings),
		callTimeout: cfg.CallTimeout,
	}
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) Analyze(ctx context.Context, in AnalysisInput) (*Proposal, error) {
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}

	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Analyze(ctx, in)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrProviderUnavailable, b.inner.Name(), err)
	}
	return result.(*Proposal), nil
}

// State reports the breaker state, for health output.
func (b *breakerProvider) State() string {
	return b.breaker.State().String()
}

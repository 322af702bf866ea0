package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

// GuardSettings tunes the breaker in front of a durable store.
type GuardSettings struct {
	// Name labels the breaker in logs.
	Name string

	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32

	// OpenTimeout is how long the breaker stays open before letting one
	// probe request through.
	OpenTimeout time.Duration
}

/*
Guarded puts a circuit breaker in front of a Store.

A store that keeps failing (disk full, quota exceeded, storage revoked) would
otherwise cost a failed syscall on every cache write. Once MaxFailures calls
in a row fail the breaker opens and every call returns ErrUnavailable
immediately, which the cache already treats as "durable store unavailable".
After OpenTimeout one call is let through to probe for recovery.

A missing record is not a failure.
*/
type Guarded struct {
	inner types.Store
	cb    *gobreaker.CircuitBreaker
}

// NewGuarded wraps inner with a breaker.
func NewGuarded(inner types.Store, s GuardSettings, log *zap.Logger) *Guarded {
	if log == nil {
		log = zap.NewNop()
	}
	if s.Name == "" {
		s.Name = "durable-store"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	maxFailures := s.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("durable store breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Guarded{inner: inner, cb: cb}
}

// State reports the breaker state ("closed", "open" or "half-open").
func (g *Guarded) State() string {
	return g.cb.State().String()
}

type getResult struct {
	value string
	ok    bool
}

func (g *Guarded) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		v, ok, err := g.inner.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return getResult{value: v, ok: ok}, nil
	})
	if err != nil {
		return "", false, unavailable(err)
	}
	r := res.(getResult)
	return r.value, r.ok, nil
}

func (g *Guarded) Set(ctx context.Context, key, value string) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, g.inner.Set(ctx, key, value)
	})
	return unavailable(err)
}

func (g *Guarded) Remove(ctx context.Context, key string) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, g.inner.Remove(ctx, key)
	})
	return unavailable(err)
}

func (g *Guarded) Keys(ctx context.Context) ([]string, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		return g.inner.Keys(ctx)
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return res.([]string), nil
}

func unavailable(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

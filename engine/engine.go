package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/types"
	"github.com/Jaysum57/CropGuard-sub000/writepolicy"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- What time it is
- Where an entry's deadline lands and when it has passed
- How changes are mirrored to the durable store
- How metrics and logs are recorded

It does NOT:
- Store data
- Handle locking
- Know about key namespaces
*/
type CacheEngine struct {

	// Expiration controls when a cache entry is considered too old.
	// Defaults to expiration.ExpireAfterWrite.
	Expiration expiration.Strategy

	// Clock is the time source. Tests swap in a ManualClock.
	Clock expiration.Clock

	// WritePolicy decides how changes reach the durable store.
	// If nil, the cache is memory-only (no durable store in this runtime).
	WritePolicy writepolicy.WritePolicy

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	// Log receives durable-store failures and initialization summaries.
	Log *zap.Logger
}

/*
NewCacheEngine creates a CacheEngine.
Nil collaborators are replaced by their defaults so callers never nil-check.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	clock expiration.Clock,
	writePolicy writepolicy.WritePolicy,
	metrics types.Metrics,
	log *zap.Logger,
) *CacheEngine {

	if exp == nil {
		exp = expiration.ExpireAfterWrite{}
	}
	if clock == nil {
		clock = expiration.SystemClock{}
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CacheEngine{
		Expiration:  exp,
		Clock:       clock,
		WritePolicy: writePolicy,
		Metrics:     metrics,
		Log:         log,
	}
}

// Now returns the engine's current time.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

// NewEntry stamps data with the current time and a deadline ttl away.
func NewEntry[T any](e *CacheEngine, data T, ttl time.Duration) types.Entry[T] {
	now := e.Now()
	return types.Entry[T]{
		Data:      data,
		Timestamp: now,
		ExpiresAt: e.Expiration.Deadline(now, ttl),
	}
}

// IsExpired checks a deadline against the current time.
func (e *CacheEngine) IsExpired(expiresAt time.Time) bool {
	return e.Expiration.IsExpired(expiresAt, e.Now())
}

// Durable reports whether changes are mirrored anywhere.
func (e *CacheEngine) Durable() bool {
	return e.WritePolicy != nil
}

/*
OnWrite forwards a serialized entry to the write policy.
A memory-only engine drops it.
*/
func (e *CacheEngine) OnWrite(ctx context.Context, key, value string) {
	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, key, value)
	}
}

// OnDelete forwards a removal to the write policy.
func (e *CacheEngine) OnDelete(ctx context.Context, key string) {
	if e.WritePolicy != nil {
		e.WritePolicy.OnDelete(ctx, key)
	}
}

// Flush waits for buffered durable changes, if the policy buffers any.
func (e *CacheEngine) Flush() {
	if f, ok := e.WritePolicy.(writepolicy.Flusher); ok {
		f.Flush()
	}
}

// Close releases the write policy.
func (e *CacheEngine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}

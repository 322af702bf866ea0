package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/types"
)

// DefaultTTL applies when neither WithTTL nor a per-call ttl is given.
const DefaultTTL = time.Hour

type options struct {
	ttl           time.Duration
	clock         expiration.Clock
	strategy      expiration.Strategy
	log           *zap.Logger
	metrics       types.Metrics
	writeBack     bool
	writeBuffer   int
	sweepInterval time.Duration
}

// Option configures a TTLCache at construction time.
type Option func(*options)

// WithTTL sets the default lifetime of entries written without an explicit ttl.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c expiration.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStrategy replaces the fixed-TTL expiration strategy.
func WithStrategy(s expiration.Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithLogger sets the logger for durable-store failures and lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithWriteBack mirrors to the durable store on a background worker with a
// queue of buffer changes instead of synchronously.
func WithWriteBack(buffer int) Option {
	return func(o *options) {
		o.writeBack = true
		o.writeBuffer = buffer
	}
}

// WithSweepInterval starts a background sweep that drops expired entries
// every interval. Zero (the default) leaves expiry purely lazy.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.sweepInterval = d }
}

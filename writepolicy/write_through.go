package writepolicy

import (
	"context"

	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

/*
WriteThroughPolicy forwards every change straight to the durable store.

Flow: cache write → store write (synchronous, same goroutine)

The engine calls it while holding the cache lock, so durable writes and
removes for one cache happen in exactly the order the map saw them.
*/
type WriteThroughPolicy struct {
	store   types.Store
	log     *zap.Logger
	metrics types.Metrics
}

// NewWriteThroughPolicy creates a new write-through policy.
func NewWriteThroughPolicy(store types.Store, log *zap.Logger, m types.Metrics) *WriteThroughPolicy {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = types.NoopMetrics{}
	}
	return &WriteThroughPolicy{store: store, log: log, metrics: m}
}

func (w *WriteThroughPolicy) OnWrite(ctx context.Context, key, value string) {
	if err := w.store.Set(ctx, key, value); err != nil {
		w.metrics.PersistError()
		w.log.Warn("durable write failed", zap.String("key", key), zap.Error(err))
	}
}

func (w *WriteThroughPolicy) OnDelete(ctx context.Context, key string) {
	if err := w.store.Remove(ctx, key); err != nil {
		w.metrics.PersistError()
		w.log.Warn("durable remove failed", zap.String("key", key), zap.Error(err))
	}
}

// Close has nothing to release; write-through runs no goroutines.
func (w *WriteThroughPolicy) Close() {}

package writepolicy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

// This file implements the "write-back" policy.

type opKind int

const (
	opWrite opKind = iota
	opDelete
	opBarrier
)

// op is one pending change for the durable store.
type op struct {
	kind  opKind
	ctx   context.Context
	key   string
	value string
	done  chan struct{}
}

/*
WriteBackPolicy applies durable changes on a single background worker.

One worker and one FIFO channel keep the durable store in the same order as
the in-memory map: a remove queued after a write can never be overtaken by it.

Under pressure (queue full):
  - writes are DROPPED. The next run refetches anything that was lost.
  - removes BLOCK until queued. A dropped remove would resurrect an
    invalidated record at the next start.
*/
type WriteBackPolicy struct {
	store   types.Store
	log     *zap.Logger
	metrics types.Metrics

	ch chan op

	// mu guards closed against sends racing with Close.
	mu     sync.RWMutex
	closed bool

	wg sync.WaitGroup
}

// NewWriteBackPolicy creates a write-back policy with a queue of buffer changes.
func NewWriteBackPolicy(store types.Store, buffer int, log *zap.Logger, m types.Metrics) *WriteBackPolicy {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = types.NoopMetrics{}
	}
	w := &WriteBackPolicy{
		store:   store,
		log:     log,
		metrics: m,
		ch:      make(chan op, buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

func (w *WriteBackPolicy) OnWrite(ctx context.Context, key, value string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.ch <- op{kind: opWrite, ctx: ctx, key: key, value: value}:
	default:
		w.metrics.PersistError()
		w.log.Warn("write-back queue full, dropping durable write", zap.String("key", key))
	}
}

func (w *WriteBackPolicy) OnDelete(ctx context.Context, key string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	w.ch <- op{kind: opDelete, ctx: ctx, key: key}
}

// Flush waits until every change queued before the call has been applied.
func (w *WriteBackPolicy) Flush() {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	w.ch <- op{kind: opBarrier, done: done}
	w.mu.RUnlock()

	<-done
}

/*
worker runs in the background and processes queued changes in order.
This is where eventual consistency with the durable store happens.
*/
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		switch req.kind {
		case opWrite:
			if err := w.store.Set(req.ctx, req.key, req.value); err != nil {
				w.metrics.PersistError()
				w.log.Warn("durable write failed", zap.String("key", req.key), zap.Error(err))
			}
		case opDelete:
			if err := w.store.Remove(req.ctx, req.key); err != nil {
				w.metrics.PersistError()
				w.log.Warn("durable remove failed", zap.String("key", req.key), zap.Error(err))
			}
		case opBarrier:
			close(req.done)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
------------------
1. Stop accepting changes
2. Close the channel
3. Wait for the worker to drain what was already queued

Close is safe to call more than once.
*/
func (w *WriteBackPolicy) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
}

package store

import (
	"context"
	"sync"

	"github.com/Jaysum57/CropGuard-sub000/types"
)

// Faulty wraps a Store and fails chosen operations on demand.
// It stands in for a store that throws, e.g. when a storage quota is exceeded.
type Faulty struct {
	inner types.Store

	mu   sync.RWMutex
	errs map[string]error
}

// Operation names accepted by Fail.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
	OpKeys   = "keys"
)

func NewFaulty(inner types.Store) *Faulty {
	return &Faulty{inner: inner, errs: make(map[string]error)}
}

// Fail makes op return err until Heal is called. A nil err clears op.
func (f *Faulty) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Heal clears every injected failure.
func (f *Faulty) Heal() {
	f.mu.Lock()
	f.errs = make(map[string]error)
	f.mu.Unlock()
}

func (f *Faulty) err(op string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errs[op]
}

func (f *Faulty) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.err(OpGet); err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *Faulty) Set(ctx context.Context, key, value string) error {
	if err := f.err(OpSet); err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *Faulty) Remove(ctx context.Context, key string) error {
	if err := f.err(OpRemove); err != nil {
		return err
	}
	return f.inner.Remove(ctx, key)
}

func (f *Faulty) Keys(ctx context.Context) ([]string, error) {
	if err := f.err(OpKeys); err != nil {
		return nil, err
	}
	return f.inner.Keys(ctx)
}

package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Jaysum57/CropGuard-sub000/api"
	"github.com/Jaysum57/CropGuard-sub000/codec"
	"github.com/Jaysum57/CropGuard-sub000/engine"
	"github.com/Jaysum57/CropGuard-sub000/types"
	"github.com/Jaysum57/CropGuard-sub000/writepolicy"
)

// ErrClosed is returned by GetOrLoad once the cache has been closed.
var ErrClosed = errors.New("cache: closed")

var _ api.Cache[struct{}] = (*TTLCache[struct{}])(nil)

/*
Scope places a cache inside the durable store's flat key space.

Namespace separates caches that share one store (profile data vs. disease
data). Family separates payload types inside one namespace, so two typed caches
never try to decode each other's records. The durable key of a cache key k is

	Namespace + Family + k
*/
type Scope struct {
	Namespace string
	Family    string
}

// Prefix is the durable key prefix that owns every record of this scope.
func (s Scope) Prefix() string { return s.Namespace + s.Family }

// Key returns the durable key for k.
func (s Scope) Key(k string) string { return s.Prefix() + k }

/*
TTLCache is the generic cache engine: one in-memory map, mirrored to a
durable store, with lazy expiry.

This struct is the orchestrator that connects:
- the in-memory map (authoritative for this process)
- the codec (durable record format)
- the engine (clock, expiration, write policy, metrics, logging)

A single mutex guards the map. Every public data operation is synchronous and
never returns an error: durable-store trouble is logged and the cache carries on
in memory.
*/
type TTLCache[T any] struct {
	mu    sync.Mutex
	items map[string]*types.Entry[T]

	// loading holds one flag per key with a load in flight. Delete and Clear
	// raise it so the load does not write its result back.
	loading map[string]*bool

	scope  Scope
	ttl    time.Duration
	store  types.Store
	engine *engine.CacheEngine

	// sf prevents concurrent misses on one key from fetching it twice.
	sf singleflight.Group

	closed bool
	stop   context.CancelFunc
	wg     sync.WaitGroup
}

/*
New builds a cache for scope over st and initializes it from st.

st may be nil, meaning no durable store exists in this runtime. Initialization
never fails: if st cannot be listed the cache simply starts empty.
*/
func New[T any](scope Scope, st types.Store, opts ...Option) *TTLCache[T] {
	o := options{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scope", scope.Prefix()))

	var wp writepolicy.WritePolicy
	if st != nil {
		if o.writeBack {
			wp = writepolicy.NewWriteBackPolicy(st, o.writeBuffer, log, o.metrics)
		} else {
			wp = writepolicy.NewWriteThroughPolicy(st, log, o.metrics)
		}
	}

	c := &TTLCache[T]{
		items:   make(map[string]*types.Entry[T]),
		loading: make(map[string]*bool),
		scope:  scope,
		ttl:    o.ttl,
		store:  st,
		engine: engine.NewCacheEngine(o.strategy, o.clock, wp, o.metrics, log),
	}

	c.initialize(context.Background())

	if o.sweepInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.stop = cancel
		c.wg.Add(1)
		go c.sweepLoop(ctx, o.sweepInterval)
	}

	return c
}

/*
initialize loads every live durable record of this scope into memory.

Records that are expired or cannot be decoded are removed from the durable
store as they are found, so they do not cost another decode on the next start.
*/
func (c *TTLCache[T]) initialize(ctx context.Context) {
	log := c.engine.Log
	if c.store == nil {
		log.Debug("no durable store, starting empty")
		return
	}

	keys, err := c.store.Keys(ctx)
	if err != nil {
		log.Warn("durable store unavailable, starting empty", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := c.scope.Prefix()
	var loaded, expired, corrupt int
	for _, full := range keys {
		if !strings.HasPrefix(full, prefix) {
			continue
		}
		raw, ok, err := c.store.Get(ctx, full)
		if err != nil {
			log.Warn("durable read failed", zap.String("key", full), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		ent, err := codec.Decode[T](raw)
		if err != nil {
			corrupt++
			c.engine.Metrics.Corrupt()
			log.Warn("dropping corrupt durable record", zap.String("key", full), zap.Error(err))
			c.engine.OnDelete(ctx, full)
			continue
		}
		if c.engine.IsExpired(ent.ExpiresAt) {
			expired++
			c.engine.Metrics.Expire()
			c.engine.OnDelete(ctx, full)
			continue
		}

		c.items[strings.TrimPrefix(full, prefix)] = &ent
		loaded++
	}

	log.Debug("cache initialized",
		zap.Int("loaded", loaded),
		zap.Int("expired", expired),
		zap.Int("corrupt", corrupt),
	)
}

/*
Get returns the payload stored under key.

 1. Miss → zero value, false
 2. Hit, but expired → entry removed from memory and durable store, zero value, false
 3. Hit and fresh → payload, true
*/
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	ent, ok := c.items[key]
	if !ok {
		c.engine.Metrics.Miss()
		return zero, false
	}

	if c.engine.IsExpired(ent.ExpiresAt) {
		c.engine.Metrics.Expire()
		c.engine.Metrics.Miss()
		c.deleteLocked(key)
		return zero, false
	}

	c.engine.Metrics.Hit()
	return ent.Data, true
}

// Has reports whether Get would hit. It applies expiry the same way.
func (c *TTLCache[T]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value under key with the cache's default ttl.
func (c *TTLCache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, 0)
}

/*
SetWithTTL stores value under key for ttl.

A ttl <= 0 uses the cache default, so every entry has a positive lifetime.
The previous entry for key, if any, is replaced outright. The durable mirror
is best-effort: a payload that cannot be serialized, or a store that rejects
the write, is logged and the in-memory entry stands.
*/
func (c *TTLCache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, ttl)
}

// setLocked stores and mirrors one entry. Caller holds c.mu.
func (c *TTLCache[T]) setLocked(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	ent := engine.NewEntry(c.engine, value, ttl)
	c.items[key] = &ent

	if !c.engine.Durable() {
		return
	}
	raw, err := codec.Marshal(ent)
	if err != nil {
		c.engine.Metrics.PersistError()
		c.engine.Log.Warn("cannot serialize entry, keeping it in memory only",
			zap.String("key", key), zap.Error(err))
		return
	}
	c.engine.OnWrite(context.Background(), c.scope.Key(key), raw)
}

// Delete removes key from memory and the durable store. Absent keys are fine.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stale, ok := c.loading[key]; ok {
		*stale = true
	}
	c.deleteLocked(key)
}

/*
Clear removes every entry of this scope from memory and the durable store.

Durable records that never made it into memory (written by a cache that was
constructed later, or skipped because a read failed) are removed too.
Clearing an empty cache is a no-op.
*/
func (c *TTLCache[T]) Clear() {
	ctx := context.Background()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, stale := range c.loading {
		*stale = true
	}
	for key := range c.items {
		delete(c.items, key)
		c.engine.OnDelete(ctx, c.scope.Key(key))
	}

	if c.store == nil {
		return
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.engine.Log.Warn("cannot list durable store while clearing", zap.Error(err))
		return
	}
	prefix := c.scope.Prefix()
	for _, full := range keys {
		if strings.HasPrefix(full, prefix) {
			c.engine.OnDelete(ctx, full)
		}
	}
}

/*
GetOrLoad returns the cached payload for key, or calls load on a miss.

Concurrent misses on the same key share a single load. A successful load is
stored with the default ttl. If key is deleted, or the cache cleared, while
the load is in flight, the result is returned but not cached, so an
invalidation always wins over a slower fetch. Load errors are returned as-is
and nothing is cached.
*/
func (c *TTLCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	var zero T
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do(key, func() (any, error) {
		stale := false
		c.mu.Lock()
		c.loading[key] = &stale
		c.mu.Unlock()

		val, err := load(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.loading, key)
		if err != nil {
			return nil, err
		}
		if !stale {
			c.setLocked(key, val, 0)
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	// A nil interface payload comes back as a nil any.
	val, _ := v.(T)
	return val, nil
}

/*
TTL returns the remaining lifetime of key.

RETURN VALUES (Redis-compatible semantics):
-------------------------------------------
> 0   : Duration remaining before expiration
-2    : Key does not exist or is already expired

Every entry carries a ttl, so the Redis "-1 = no expiry" case never occurs.
TTL does not remove expired entries; it only reports.
*/
func (c *TTLCache[T]) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok || c.engine.IsExpired(ent.ExpiresAt) {
		return -2
	}
	return ent.ExpiresAt.Sub(c.engine.Now())
}

// Len returns the number of entries in memory, including expired ones not yet dropped.
func (c *TTLCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the in-memory keys, sorted.
func (c *TTLCache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.items))
	for k := range c.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Scope returns where this cache lives in the durable store.
func (c *TTLCache[T]) Scope() Scope { return c.scope }

// DefaultTTL returns the lifetime given to entries written without a ttl.
func (c *TTLCache[T]) DefaultTTL() time.Duration { return c.ttl }

// Flush waits for queued durable changes. It is a no-op for write-through.
func (c *TTLCache[T]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Flush()
}

/*
Close stops the sweep goroutine and drains the write policy.

The in-memory map keeps working after Close, but changes are no longer
mirrored. Close is safe to call more than once.
*/
func (c *TTLCache[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	stop := c.stop
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	c.wg.Wait()
	c.engine.Close()

	c.mu.Lock()
	c.engine.WritePolicy = nil
	c.mu.Unlock()
}

// deleteLocked drops key from memory and the durable store. Caller holds c.mu.
func (c *TTLCache[T]) deleteLocked(key string) {
	delete(c.items, key)
	c.engine.OnDelete(context.Background(), c.scope.Key(key))
}

package api

import (
	"context"
	"time"
)

/*
Cache defines the PUBLIC API of the TTL cache core.
This is a contract that guarantees certain behaviors, without exposing internals.
Durable mirroring, expiry strategy, clocks and metrics are hidden behind it.

T is the payload type. One cache holds one payload type.
*/
type Cache[T any] interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key exists and is NOT expired:
		   - Return the value and true (cache hit)

		2. If the key does NOT exist, or has expired:
		   - Drop the expired entry from memory and the durable store
		   - Return the zero value and false (cache miss)

		Get never returns an error. A broken durable store only ever shows up
		as more misses.
	*/
	Get(key string) (T, bool)

	// Has is Get without the value. It applies expiry exactly like Get.
	Has(key string) bool

	/*
		Set stores a key-value pair with the cache's default TTL.

		BEHAVIOR:
		---------
		- Builds a new entry stamped with now and now + ttl
		- Replaces any previous entry for key
		- Mirrors the entry to the durable store, best-effort
	*/
	Set(key string, value T)

	/*
		SetWithTTL stores a key-value pair with an explicit time-to-live (TTL).

		A ttl <= 0 falls back to the default so every entry expires.
	*/
	SetWithTTL(key string, value T, ttl time.Duration)

	/*
		Delete removes a key from memory and the durable store immediately.

		USE CASES:
		----------
		- Invalidation after a mutation ("profile saved", "scan finished")
		- Sign-out

		This operation is idempotent:
		- Deleting a non-existing key is safe
	*/
	Delete(key string)

	// Clear removes every entry of this cache, in memory and durable.
	Clear()

	/*
		GetOrLoad is read-through caching.

		On a hit it returns the cached value. On a miss it calls load once,
		even when many goroutines miss together, caches the result and
		returns it. Load errors are returned and nothing is cached.
	*/
	GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error)

	/*
		TTL returns the remaining time-to-live for a key.

		RETURN VALUES:
		--------------
		> 0   : Duration remaining before expiration
		-2    : Key does not exist or is already expired
	*/
	TTL(key string) time.Duration

	/*
		Close gracefully shuts down the cache.

		BEHAVIOR:
		---------
		- Stops the background sweep, if any
		- Drains pending write-back changes
		- Leaves the in-memory map usable
	*/
	Close()
}

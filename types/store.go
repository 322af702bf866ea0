package types

import "context"

// Store is the contract between the cache and its durable backing store.
//
// A Store is a flat, string-keyed string store that survives process restart.
// The cache treats it as best-effort: every error returned here is logged and
// swallowed, and a nil Store simply means "no durable store in this runtime".
type Store interface {

	/*
		Get returns the raw value stored under key.

		RETURN VALUES:
		--------------
		value, true,  nil : record exists
		"",    false, nil : no record under key
		"",    false, err : store could not be read
	*/
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous record.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the record under key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	/*
		Keys lists every key currently held by the store.

		The cache calls this once per instance, while initializing, to find
		the records that belong to its namespace. It is also used by Clear to
		reach durable records that were never loaded into memory.
	*/
	Keys(ctx context.Context) ([]string, error)
}

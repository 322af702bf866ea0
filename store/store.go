// Package store holds the durable backing stores the cache can mirror to.
//
// Every implementation satisfies types.Store. The cache also accepts a nil
// store, which means no durable store exists in this runtime.
package store

import "errors"

// ErrUnavailable is returned when the durable store cannot be reached right now.
var ErrUnavailable = errors.New("store: durable store unavailable")

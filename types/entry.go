package types

import "time"

/*
Entry is one cached payload together with its TTL metadata.

An Entry is read-only once created. Writing the same key again builds a
brand new Entry and swaps it in; nothing ever edits Data or the timestamps
in place, so a pointer handed out under the cache lock stays consistent.
*/
type Entry[T any] struct {
	// Data is the payload. The cache never inspects it.
	Data T

	// Timestamp is the instant the entry was written.
	Timestamp time.Time

	// ExpiresAt is Timestamp + ttl. The entry is invalid at or after this instant.
	ExpiresAt time.Time
}

// NewEntry builds an entry written at now that lives for ttl.
func NewEntry[T any](data T, now time.Time, ttl time.Duration) Entry[T] {
	return Entry[T]{
		Data:      data,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}
}


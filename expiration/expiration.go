// This file defines how cache entries expire over time.

package expiration

import "time"

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.

Entries are immutable once written, so a strategy only gets two decisions:
where the deadline of a new entry lands, and whether a deadline has passed.
*/
type Strategy interface {

	// Deadline returns the expiresAt of an entry written at now with the given ttl.
	Deadline(now time.Time, ttl time.Duration) time.Time

	// IsExpired checks if an entry with this deadline is expired at now.
	IsExpired(expiresAt, now time.Time) bool
}

package expiration

import "time"

/*
ExpireAfterWrite is the fixed TTL strategy: an entry lives for exactly ttl
from the moment it was written, no matter how often it is read.

Reading never extends the lifetime. The only way to keep data alive is to
write it again, which is what a caller does after refetching from the backend.
*/
type ExpireAfterWrite struct{}

// Deadline is now + ttl.
func (ExpireAfterWrite) Deadline(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// IsExpired is true at or after the deadline.
func (ExpireAfterWrite) IsExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

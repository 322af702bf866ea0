package writepolicy

import "context"

/*
This file defines what a "write policy" is.

A write policy decides how a change to the in-memory map reaches the durable
store. The in-memory map is always updated first and stays authoritative for
the life of the process; the durable copy only matters at the next start.

  - Write-through: mirror each change synchronously, inside the caller's call
  - Write-back: queue each change for one background worker
*/

/*
WritePolicy is the contract that all write policies must follow.
The cache engine does not care which policy is used. It simply calls these methods.

None of the methods return errors. Failures are logged and counted, never
handed back to the cache's callers.
*/
type WritePolicy interface {

	// OnWrite mirrors a serialized entry under its durable key.
	OnWrite(ctx context.Context, key, value string)

	// OnDelete removes the durable record under key.
	OnDelete(ctx context.Context, key string)

	// Close is called when the cache is shutting down.
	Close()
}

// Flusher is implemented by policies that buffer work.
// Flush returns once everything queued before the call has been applied.
type Flusher interface {
	Flush()
}

package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

/*
sweepLoop periodically drops expired entries.

Lazy expiry on Get is what keeps reads correct; the sweep only bounds memory
for keys that are written once and never read again. It is off unless
WithSweepInterval is given.
*/
func (c *TTLCache[T]) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.engine.Log.Debug("swept expired entries", zap.Int("count", n))
			}
		}
	}
}

// Sweep removes every expired entry now and returns how many were dropped.
func (c *TTLCache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, ent := range c.items {
		if c.engine.IsExpired(ent.ExpiresAt) {
			c.engine.Metrics.Expire()
			c.deleteLocked(key)
			removed++
		}
	}
	return removed
}

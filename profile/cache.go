// Package profile caches per-user profile and scan statistics.
//
// Callers never build cache keys. Every operation takes a user id and the
// package derives profile_<userId> and stats_<userId> inside one namespace
// of the durable store.
package profile

import (
	"context"
	"time"

	cache "github.com/Jaysum57/CropGuard-sub000"
	"github.com/Jaysum57/CropGuard-sub000/types"
)

const (
	// DefaultNamespace prefixes every durable key written by this package.
	DefaultNamespace = "cropguard:user:"

	// DefaultTTL is how long profile and stats entries live unless overridden.
	DefaultTTL = time.Hour

	profileFamily = "profile_"
	statsFamily   = "stats_"
)

// ProfileKey is the domain key of a user's profile entry.
func ProfileKey(userID string) string { return profileFamily + userID }

// StatsKey is the domain key of a user's stats entry.
func StatsKey(userID string) string { return statsFamily + userID }

// Source fetches fresh data from the backend on a cache miss.
type Source interface {
	Profile(ctx context.Context, userID string) (Profile, error)
	Stats(ctx context.Context, userID string) (UserStats, error)
}

// Cache is the profile/stats facade. Construct one per process and share it.
type Cache struct {
	profiles *cache.TTLCache[Profile]
	stats    *cache.TTLCache[UserStats]
}

/*
New builds the facade over st under namespace (DefaultNamespace if empty).

opts are applied to both underlying caches after the package defaults, so
cache.WithTTL here sets the TTL for this facade instance.
*/
func New(st types.Store, namespace string, opts ...cache.Option) *Cache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	all := append([]cache.Option{cache.WithTTL(DefaultTTL)}, opts...)

	return &Cache{
		profiles: cache.New[Profile](cache.Scope{Namespace: namespace, Family: profileFamily}, st, all...),
		stats:    cache.New[UserStats](cache.Scope{Namespace: namespace, Family: statsFamily}, st, all...),
	}
}

// GetProfile returns the cached profile of userID.
func (c *Cache) GetProfile(userID string) (Profile, bool) {
	return c.profiles.Get(userID)
}

// SetProfile caches p as the profile of userID.
func (c *Cache) SetProfile(userID string, p Profile) {
	c.profiles.Set(userID, p)
}

// GetStats returns the cached stats of userID.
func (c *Cache) GetStats(userID string) (UserStats, bool) {
	return c.stats.Get(userID)
}

// SetStats caches s as the stats of userID.
func (c *Cache) SetStats(userID string, s UserStats) {
	c.stats.Set(userID, s)
}

// InvalidateProfile is called after the user saves their profile.
func (c *Cache) InvalidateProfile(userID string) {
	c.profiles.Delete(userID)
}

// InvalidateStats is called after a scan finishes.
func (c *Cache) InvalidateStats(userID string) {
	c.stats.Delete(userID)
}

// InvalidateUser drops everything cached for userID. Called on sign-out.
func (c *Cache) InvalidateUser(userID string) {
	c.profiles.Delete(userID)
	c.stats.Delete(userID)
}

// FetchProfile returns the cached profile or loads it from src and caches it.
func (c *Cache) FetchProfile(ctx context.Context, userID string, src Source) (Profile, error) {
	return c.profiles.GetOrLoad(ctx, userID, func(ctx context.Context) (Profile, error) {
		return src.Profile(ctx, userID)
	})
}

// FetchStats returns the cached stats or loads them from src and caches them.
func (c *Cache) FetchStats(ctx context.Context, userID string, src Source) (UserStats, error) {
	return c.stats.GetOrLoad(ctx, userID, func(ctx context.Context) (UserStats, error) {
		return src.Stats(ctx, userID)
	})
}

// Clear drops every profile and stats entry of every user.
func (c *Cache) Clear() {
	c.profiles.Clear()
	c.stats.Clear()
}

// Len returns the number of in-memory profile and stats entries.
func (c *Cache) Len() (profiles, stats int) {
	return c.profiles.Len(), c.stats.Len()
}

// Flush waits for queued durable writes.
func (c *Cache) Flush() {
	c.profiles.Flush()
	c.stats.Flush()
}

// Close drains pending durable writes of both caches.
func (c *Cache) Close() {
	c.profiles.Close()
	c.stats.Close()
}

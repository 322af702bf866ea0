// Package disease caches the plant-disease reference library.
//
// The library is cached twice: once as the full list under a single key
// shared by all users, and once per record under disease_<id>. Writing the
// full list fans out to the per-record entries, so a detail lookup right
// after a list fetch is already a hit.
package disease

import (
	"context"
	"slices"
	"time"

	cache "github.com/Jaysum57/CropGuard-sub000"
	"github.com/Jaysum57/CropGuard-sub000/types"
)

const (
	// DefaultNamespace prefixes every durable key written by this package.
	DefaultNamespace = "cropguard:disease:"

	// DefaultTTL is shorter than the profile TTL: reference data changes
	// independently of anything the user does.
	DefaultTTL = 30 * time.Minute

	// AllDiseasesKey is the domain key of the full list.
	AllDiseasesKey = collectionFamily + collectionKey

	collectionFamily = "all_"
	collectionKey    = "diseases"
	recordFamily     = "disease_"
)

// RecordKey is the domain key of a single record.
func RecordKey(id string) string { return recordFamily + id }

// Source fetches reference data from the backend on a cache miss.
type Source interface {
	Diseases(ctx context.Context) ([]Disease, error)
	Disease(ctx context.Context, id string) (Disease, error)
}

// Cache is the disease reference facade.
type Cache struct {
	all     *cache.TTLCache[[]Disease]
	records *cache.TTLCache[Disease]
}

// New builds the facade over st under namespace (DefaultNamespace if empty).
func New(st types.Store, namespace string, opts ...cache.Option) *Cache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	all := append([]cache.Option{cache.WithTTL(DefaultTTL)}, opts...)

	return &Cache{
		all:     cache.New[[]Disease](cache.Scope{Namespace: namespace, Family: collectionFamily}, st, all...),
		records: cache.New[Disease](cache.Scope{Namespace: namespace, Family: recordFamily}, st, all...),
	}
}

// GetAllDiseases returns the cached full list.
func (c *Cache) GetAllDiseases() ([]Disease, bool) {
	list, ok := c.all.Get(collectionKey)
	if !ok {
		return nil, false
	}
	return slices.Clone(list), true
}

/*
SetAllDiseases caches the full list and every record in it individually.
Records without an id are kept in the list but get no entry of their own.
*/
func (c *Cache) SetAllDiseases(records []Disease) {
	c.all.Set(collectionKey, slices.Clone(records))
	c.fanOut(records)
}

// GetDisease returns the cached record with id.
func (c *Cache) GetDisease(id string) (Disease, bool) {
	return c.records.Get(id)
}

// SetDisease caches one record under its own id.
func (c *Cache) SetDisease(d Disease) {
	if d.ID == "" {
		return
	}
	c.records.Set(d.ID, d)
}

// InvalidateDisease drops one record and the full list that contains it.
func (c *Cache) InvalidateDisease(id string) {
	c.records.Delete(id)
	c.all.Delete(collectionKey)
}

// InvalidateAll drops the full list and every record.
func (c *Cache) InvalidateAll() {
	c.all.Clear()
	c.records.Clear()
}

// FetchAllDiseases returns the cached list or loads it from src, fanning out on load.
func (c *Cache) FetchAllDiseases(ctx context.Context, src Source) ([]Disease, error) {
	list, err := c.all.GetOrLoad(ctx, collectionKey, func(ctx context.Context) ([]Disease, error) {
		list, err := src.Diseases(ctx)
		if err != nil {
			return nil, err
		}
		c.fanOut(list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(list), nil
}

// FetchDisease returns the cached record or loads it from src.
func (c *Cache) FetchDisease(ctx context.Context, id string, src Source) (Disease, error) {
	return c.records.GetOrLoad(ctx, id, func(ctx context.Context) (Disease, error) {
		return src.Disease(ctx, id)
	})
}

// Flush waits for queued durable writes.
func (c *Cache) Flush() {
	c.all.Flush()
	c.records.Flush()
}

// Close drains pending durable writes of both caches.
func (c *Cache) Close() {
	c.all.Close()
	c.records.Close()
}

func (c *Cache) fanOut(records []Disease) {
	for _, d := range records {
		c.SetDisease(d)
	}
}

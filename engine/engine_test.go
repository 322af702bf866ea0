package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysum57/CropGuard-sub000/engine"
	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/store"
	"github.com/Jaysum57/CropGuard-sub000/types"
	"github.com/Jaysum57/CropGuard-sub000/writepolicy"
)

func TestDefaults(t *testing.T) {
	e := engine.NewCacheEngine(nil, nil, nil, nil, nil)

	assert.IsType(t, expiration.ExpireAfterWrite{}, e.Expiration)
	assert.IsType(t, expiration.SystemClock{}, e.Clock)
	assert.IsType(t, types.NoopMetrics{}, e.Metrics)
	require.NotNil(t, e.Log)
	assert.False(t, e.Durable())

	// Memory-only engines accept every call.
	e.OnWrite(context.Background(), "k", "v")
	e.OnDelete(context.Background(), "k")
	e.Flush()
	e.Close()
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := expiration.NewManualClock(start)
	e := engine.NewCacheEngine(nil, clock, nil, nil, nil)

	ent := engine.NewEntry(e, "payload", time.Minute)
	assert.Equal(t, "payload", ent.Data)
	assert.Equal(t, start, ent.Timestamp)
	assert.Equal(t, start.Add(time.Minute), ent.ExpiresAt)

	assert.False(t, e.IsExpired(ent.ExpiresAt))
	clock.Advance(time.Minute)
	assert.True(t, e.IsExpired(ent.ExpiresAt))
}

func TestForwardsToWritePolicy(t *testing.T) {
	st := store.NewMemory()
	e := engine.NewCacheEngine(nil, nil, writepolicy.NewWriteBackPolicy(st, 8, nil, nil), nil, nil)
	ctx := context.Background()

	require.True(t, e.Durable())
	e.OnWrite(ctx, "a", "1")
	e.OnWrite(ctx, "b", "2")
	e.OnDelete(ctx, "a")
	e.Flush()

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
	e.Close()
}

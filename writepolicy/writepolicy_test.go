package writepolicy_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysum57/CropGuard-sub000/store"
	"github.com/Jaysum57/CropGuard-sub000/writepolicy"
)

type persistCounter struct {
	n atomic.Int64
}

func (*persistCounter) Hit()            {}
func (*persistCounter) Miss()           {}
func (*persistCounter) Expire()         {}
func (*persistCounter) Corrupt()        {}
func (p *persistCounter) PersistError() { p.n.Add(1) }

func TestWriteThrough(t *testing.T) {
	st := store.NewMemory()
	var wp writepolicy.WritePolicy = writepolicy.NewWriteThroughPolicy(st, nil, nil)
	ctx := context.Background()

	wp.OnWrite(ctx, "k", "v")
	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)

	wp.OnDelete(ctx, "k")
	assert.Zero(t, st.Len())
	wp.Close()
}

func TestWriteThroughCountsFailures(t *testing.T) {
	f := store.NewFaulty(store.NewMemory())
	f.Fail(store.OpSet, errors.New("full"))
	f.Fail(store.OpRemove, errors.New("full"))
	m := &persistCounter{}

	wp := writepolicy.NewWriteThroughPolicy(f, nil, m)
	wp.OnWrite(context.Background(), "k", "v")
	wp.OnDelete(context.Background(), "k")

	assert.EqualValues(t, 2, m.n.Load())
}

func TestWriteBackOrdering(t *testing.T) {
	st := store.NewMemory()
	wp := writepolicy.NewWriteBackPolicy(st, 16, nil, nil)
	ctx := context.Background()

	wp.OnWrite(ctx, "k", "1")
	wp.OnWrite(ctx, "k", "2")
	wp.OnDelete(ctx, "gone")
	wp.OnWrite(ctx, "gone", "x")
	wp.OnDelete(ctx, "gone")
	wp.Flush()

	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, st.Len())

	wp.Close()
}

func TestWriteBackCloseDrains(t *testing.T) {
	st := store.NewMemory()
	wp := writepolicy.NewWriteBackPolicy(st, 128, nil, nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		wp.OnWrite(ctx, string(rune('A'+i%26)), "v")
	}
	wp.Close()
	wp.Close()

	assert.Equal(t, 26, st.Len())

	// After Close every call is a no-op.
	wp.OnWrite(ctx, "late", "v")
	wp.OnDelete(ctx, "A")
	wp.Flush()
	assert.Equal(t, 26, st.Len())
}

func TestWriteBackCountsFailures(t *testing.T) {
	f := store.NewFaulty(store.NewMemory())
	f.Fail(store.OpSet, errors.New("full"))
	m := &persistCounter{}

	wp := writepolicy.NewWriteBackPolicy(f, 4, nil, m)
	wp.OnWrite(context.Background(), "k", "v")
	wp.Flush()
	wp.Close()

	assert.EqualValues(t, 1, m.n.Load())
}

func TestWriteBackIsFlusher(t *testing.T) {
	var wp writepolicy.WritePolicy = writepolicy.NewWriteBackPolicy(store.NewMemory(), 1, nil, nil)
	defer wp.Close()
	_, ok := wp.(writepolicy.Flusher)
	assert.True(t, ok)

	var wt writepolicy.WritePolicy = writepolicy.NewWriteThroughPolicy(store.NewMemory(), nil, nil)
	_, ok = wt.(writepolicy.Flusher)
	assert.False(t, ok)
}

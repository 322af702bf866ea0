package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/codec"
	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/store"
)

func testEnv(t *testing.T) *env {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Kind = config.StoreDir
	cfg.Store.Dir = t.TempDir()
	return &env{cfg: cfg, log: zap.NewNop()}
}

func TestNamespaces(t *testing.T) {
	e := testEnv(t)
	tests := []struct {
		which   string
		want    []string
		wantErr bool
	}{
		{"profile", []string{"cropguard:user:"}, false},
		{"disease", []string{"cropguard:disease:"}, false},
		{"all", []string{"cropguard:user:", "cropguard:disease:"}, false},
		{"", []string{"cropguard:user:", "cropguard:disease:"}, false},
		{"scans", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.which, func(t *testing.T) {
			got, err := namespaces(e, tt.which)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListKeys(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	for _, k := range []string{"cropguard:user:profile_u1", "cropguard:disease:all_diseases", "other:x"} {
		require.NoError(t, st.Set(ctx, k, "v"))
	}

	keys, err := listKeys(ctx, st, []string{"cropguard:user:", "cropguard:disease:"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cropguard:disease:all_diseases", "cropguard:user:profile_u1"}, keys)

	keys, err = listKeys(ctx, st, []string{"cropguard:user:"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cropguard:user:profile_u1"}, keys)
}

func TestWriteRecords(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	fresh, err := codec.Encode("ana", time.Hour, now.Add(-10*time.Minute))
	require.NoError(t, err)
	stale, err := codec.Encode("lee", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "ns:fresh", fresh))
	require.NoError(t, st.Set(ctx, "ns:stale", stale))
	require.NoError(t, st.Set(ctx, "ns:broken", "{oops"))

	var out bytes.Buffer
	require.NoError(t, writeRecords(ctx, &out, st, []string{"ns:broken", "ns:fresh", "ns:gone", "ns:stale"}, now))

	rows := map[string][]string{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n")[1:] {
		f := strings.Fields(line)
		rows[f[0]] = f[1:]
	}

	tests := []struct {
		key    string
		status string
		left   string
	}{
		{"ns:fresh", "fresh", "50m0s"},
		{"ns:stale", "expired", "0s"},
		{"ns:broken", "corrupt", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			row, ok := rows[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.status, row[0])
			assert.Equal(t, tt.left, row[2])
		})
	}
	assert.NotContains(t, rows, "ns:gone", "missing records are skipped")
}

func TestOpenStoreRefusesEphemeralKinds(t *testing.T) {
	for _, kind := range []string{config.StoreMemory, config.StoreNone} {
		e := testEnv(t)
		e.cfg.Store.Kind = kind
		_, err := openStore(e)
		assert.Error(t, err, kind)
	}

	st, err := openStore(testEnv(t))
	require.NoError(t, err)
	assert.NotNil(t, st)
}

func TestSweepAndClearCommands(t *testing.T) {
	e := testEnv(t)
	st, err := openStore(e)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now()
	fresh, err := codec.Encode(map[string]any{"first_name": "Ana"}, time.Hour, now)
	require.NoError(t, err)
	stale, err := codec.Encode(map[string]any{}, time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "cropguard:user:profile_u1", fresh))
	require.NoError(t, st.Set(ctx, "cropguard:user:profile_u2", stale))
	require.NoError(t, st.Set(ctx, "cropguard:disease:disease_x", "garbage"))

	var out bytes.Buffer
	sweep := newSweepCmd(e)
	sweep.SetOut(&out)
	sweep.SetArgs([]string{})
	require.NoError(t, sweep.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "removed 2 of 3 records")

	out.Reset()
	clearCmd := newClearCmd(e)
	clearCmd.SetOut(&out)
	clearCmd.SetArgs([]string{"--namespace", "profile"})
	require.NoError(t, clearCmd.ExecuteContext(ctx))

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

package app_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysum57/CropGuard-sub000/app"
	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/profile"
	"github.com/Jaysum57/CropGuard-sub000/store"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name  string
		store config.Store
		check func(t *testing.T, st any)
	}{
		{"none", config.Store{Kind: config.StoreNone}, func(t *testing.T, st any) {
			assert.Nil(t, st)
		}},
		{"memory", config.Store{Kind: config.StoreMemory}, func(t *testing.T, st any) {
			assert.IsType(t, &store.Memory{}, st)
		}},
		{"dir", config.Store{Kind: config.StoreDir, Dir: t.TempDir()}, func(t *testing.T, st any) {
			assert.IsType(t, &store.Dir{}, st)
		}},
		{"guarded", config.Store{Kind: config.StoreMemory, Breaker: config.Breaker{Enabled: true, MaxFailures: 3, OpenTimeout: time.Second}}, func(t *testing.T, st any) {
			g, ok := st.(*store.Guarded)
			require.True(t, ok)
			assert.Equal(t, "closed", g.State())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := app.OpenStore(tt.store, nil)
			require.NoError(t, err)
			tt.check(t, st)
		})
	}
}

func TestOpenStoreUnknownKind(t *testing.T) {
	_, err := app.OpenStore(config.Store{Kind: "redis"}, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBuildWiresFacades(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Kind = config.StoreDir
	cfg.Store.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.Store.WriteMode = config.WriteBack
	cfg.Profile.TTL = time.Minute

	clock := expiration.NewManualClock(time.Unix(0, 0))
	reg := prometheus.NewRegistry()

	a, err := app.Build(cfg, app.Options{Registry: reg, Clock: clock})
	require.NoError(t, err)
	assert.Nil(t, a.Backend)

	name := "Ana"
	a.Profiles.SetProfile("u1", profile.Profile{FirstName: &name})
	a.Diseases.SetAllDiseases([]disease.Disease{{ID: "leaf-rust", Name: "Leaf Rust"}})
	a.Close()

	keys, err := a.Store.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cropguard:disease:all_diseases",
		"cropguard:disease:disease_leaf-rust",
		"cropguard:user:profile_u1",
	}, keys)

	// A second process sees the same records, and the configured ttl.
	b, err := app.Build(cfg, app.Options{Clock: clock})
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.Profiles.GetProfile("u1")
	assert.True(t, ok)
	clock.Advance(time.Minute)
	_, ok = b.Profiles.GetProfile("u1")
	assert.False(t, ok)
	_, ok = b.Diseases.GetDisease("leaf-rust")
	assert.True(t, ok, "disease ttl is independent of the profile ttl")

	// Only the first instance reports to reg, and it never read anything.
	expected := `
# HELP cropguard_cache_misses_total Total number of cache reads that found nothing usable
# TYPE cropguard_cache_misses_total counter
cropguard_cache_misses_total{cache="disease"} 0
cropguard_cache_misses_total{cache="profile"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "cropguard_cache_misses_total"))
}

func TestBuildWithBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Kind = config.StoreNone
	cfg.Supabase.URL = "https://example.supabase.co"
	cfg.Supabase.Key = "anon-key"

	a, err := app.Build(cfg, app.Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.NotNil(t, a.Backend)
}

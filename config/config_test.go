package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/profile"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, config.StoreMemory, cfg.Store.Kind)
	assert.Equal(t, config.WriteThrough, cfg.Store.WriteMode)
	assert.Equal(t, profile.DefaultNamespace, cfg.Profile.Namespace)
	assert.Equal(t, time.Hour, cfg.Profile.TTL)
	assert.Equal(t, disease.DefaultNamespace, cfg.Disease.Namespace)
	assert.Equal(t, 30*time.Minute, cfg.Disease.TTL)
	assert.True(t, cfg.Store.Breaker.Enabled)
}

func TestYAML(t *testing.T) {
	path := writeFile(t, "cache.yaml", `
environment: production
log_level: debug
store:
  kind: dir
  dir: /tmp/cropguard
  write_mode: back
  write_buffer: 32
  sweep_interval: 1m
profile:
  namespace: "app:user:"
  ttl: 2h
`)
	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, config.StoreDir, cfg.Store.Kind)
	assert.Equal(t, "/tmp/cropguard", cfg.Store.Dir)
	assert.Equal(t, config.WriteBack, cfg.Store.WriteMode)
	assert.Equal(t, 32, cfg.Store.WriteBuffer)
	assert.Equal(t, time.Minute, cfg.Store.SweepInterval)
	assert.Equal(t, "app:user:", cfg.Profile.Namespace)
	assert.Equal(t, 2*time.Hour, cfg.Profile.TTL)

	// Untouched sections keep their defaults.
	assert.Equal(t, disease.DefaultNamespace, cfg.Disease.Namespace)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "cache.yaml", "store:\n  kind: dir\n  dir: /from/yaml\n")
	t.Setenv("CROPGUARD_STORE_DIR", "/from/env")
	t.Setenv("CROPGUARD_DISEASE_TTL", "45m")
	t.Setenv("CROPGUARD_BREAKER_ENABLED", "false")
	t.Setenv("CROPGUARD_BREAKER_MAX_FAILURES", "9")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Store.Dir)
	assert.Equal(t, 45*time.Minute, cfg.Disease.TTL)
	assert.False(t, cfg.Store.Breaker.Enabled)
	assert.EqualValues(t, 9, cfg.Store.Breaker.MaxFailures)
}

func TestDotEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "CROPGUARD_WRITE_MODE=back\nCROPGUARD_WRITE_BUFFER=8\n")
	t.Cleanup(func() {
		os.Unsetenv("CROPGUARD_WRITE_MODE")
		os.Unsetenv("CROPGUARD_WRITE_BUFFER")
	})

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, config.WriteBack, cfg.Store.WriteMode)
	assert.Equal(t, 8, cfg.Store.WriteBuffer)
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	_, err := config.Load("", filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestMissingYAMLFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store kind", map[string]string{"CROPGUARD_STORE_KIND": "redis"}},
		{"unknown write mode", map[string]string{"CROPGUARD_WRITE_MODE": "sometimes"}},
		{"dir without path", map[string]string{"CROPGUARD_STORE_KIND": "dir", "CROPGUARD_STORE_DIR": ""}},
		{"zero ttl", map[string]string{"CROPGUARD_PROFILE_TTL": "0s"}},
		{"bad duration", map[string]string{"CROPGUARD_PROFILE_TTL": "soon"}},
		{"bad buffer", map[string]string{"CROPGUARD_WRITE_BUFFER": "lots"}},
		{"same namespaces", map[string]string{"CROPGUARD_PROFILE_NAMESPACE": "x:", "CROPGUARD_DISEASE_NAMESPACE": "x:"}},
		{"url without key", map[string]string{"CROPGUARD_SUPABASE_URL": "https://abc.supabase.co"}},
		{"bad environment", map[string]string{"CROPGUARD_ENVIRONMENT": "moon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load("", "")
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

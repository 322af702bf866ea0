package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "CROPGUARD_"

/*
Load builds the configuration.

The loading order (from lowest to highest priority):
 1. Default values (in code)
 2. YAML file at path, if path is not empty
 3. envFile (a .env file), if it exists; it never overrides variables
    already set in the process environment
 4. CROPGUARD_* environment variables

The result is validated before it is returned.
*/
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("ENVIRONMENT", &c.Environment)
	str("LOG_LEVEL", &c.LogLevel)
	str("STORE_KIND", &c.Store.Kind)
	str("STORE_DIR", &c.Store.Dir)
	str("WRITE_MODE", &c.Store.WriteMode)
	str("PROFILE_NAMESPACE", &c.Profile.Namespace)
	str("DISEASE_NAMESPACE", &c.Disease.Namespace)
	str("SUPABASE_URL", &c.Supabase.URL)
	str("SUPABASE_KEY", &c.Supabase.Key)

	if v, ok := lookup("WRITE_BUFFER"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sWRITE_BUFFER: %v", ErrInvalid, envPrefix, err)
		}
		c.Store.WriteBuffer = n
	}
	if v, ok := lookup("BREAKER_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sBREAKER_ENABLED: %v", ErrInvalid, envPrefix, err)
		}
		c.Store.Breaker.Enabled = b
	}
	if v, ok := lookup("BREAKER_MAX_FAILURES"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %sBREAKER_MAX_FAILURES: %v", ErrInvalid, envPrefix, err)
		}
		c.Store.Breaker.MaxFailures = uint32(n)
	}

	for name, dst := range map[string]*time.Duration{
		"SWEEP_INTERVAL":       &c.Store.SweepInterval,
		"BREAKER_OPEN_TIMEOUT": &c.Store.Breaker.OpenTimeout,
		"PROFILE_TTL":          &c.Profile.TTL,
		"DISEASE_TTL":          &c.Disease.TTL,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

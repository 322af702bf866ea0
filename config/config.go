// Package config loads cache settings from defaults, a YAML file, a .env
// file and CROPGUARD_* environment variables, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/profile"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Store kinds.
const (
	StoreMemory = "memory"
	StoreDir    = "dir"
	StoreNone   = "none"
)

// Write modes.
const (
	WriteThrough = "through"
	WriteBack    = "back"
)

type Config struct {
	Environment string   `yaml:"environment" validate:"oneof=development staging production"`
	LogLevel    string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Store       Store    `yaml:"store"`
	Profile     Facade   `yaml:"profile"`
	Disease     Facade   `yaml:"disease"`
	Supabase    Supabase `yaml:"supabase"`
}

// Store selects and tunes the durable backing store.
type Store struct {
	Kind          string        `yaml:"kind" validate:"oneof=memory dir none"`
	Dir           string        `yaml:"dir" validate:"required_if=Kind dir"`
	WriteMode     string        `yaml:"write_mode" validate:"oneof=through back"`
	WriteBuffer   int           `yaml:"write_buffer" validate:"gte=1"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gte=0"`
	Breaker       Breaker       `yaml:"breaker"`
}

// Breaker tunes the circuit breaker in front of the durable store.
type Breaker struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures" validate:"gte=1"`
	OpenTimeout time.Duration `yaml:"open_timeout" validate:"gt=0"`
}

// Facade holds the per-facade namespace and default TTL.
type Facade struct {
	Namespace string        `yaml:"namespace" validate:"required"`
	TTL       time.Duration `yaml:"ttl" validate:"gt=0"`
}

// Supabase points the backend adapter at a project. Empty URL disables it.
type Supabase struct {
	URL string `yaml:"url" validate:"omitempty,url"`
	Key string `yaml:"key" validate:"required_with=URL"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Store: Store{
			Kind:        StoreMemory,
			Dir:         ".cropguard-cache",
			WriteMode:   WriteThrough,
			WriteBuffer: 256,
			Breaker: Breaker{
				Enabled:     true,
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
			},
		},
		Profile: Facade{Namespace: profile.DefaultNamespace, TTL: profile.DefaultTTL},
		Disease: Facade{Namespace: disease.DefaultNamespace, TTL: disease.DefaultTTL},
	}
}

var validate = validator.New()

// Validate checks field constraints and that the two facades cannot collide.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Profile.Namespace == c.Disease.Namespace {
		return fmt.Errorf("%w: profile and disease namespaces must differ (both %q)", ErrInvalid, c.Profile.Namespace)
	}
	return nil
}

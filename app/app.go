// Package app is the composition root: it turns a Config into the durable
// store, the two cache facades and, when configured, the backend source.
//
// Build once per process and hand the App to whatever needs the caches.
package app

import (
	"fmt"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cache "github.com/Jaysum57/CropGuard-sub000"
	"github.com/Jaysum57/CropGuard-sub000/backend"
	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/metrics"
	"github.com/Jaysum57/CropGuard-sub000/profile"
	"github.com/Jaysum57/CropGuard-sub000/store"
	"github.com/Jaysum57/CropGuard-sub000/types"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Store    types.Store // nil when the store kind is "none"
	Profiles *profile.Cache
	Diseases *disease.Cache

	// Backend is nil unless a Supabase URL is configured.
	Backend *backend.Client
}

// Options carries collaborators that do not come from Config.
type Options struct {
	Log      *zap.Logger
	Registry prometheus.Registerer // nil disables metrics
	Clock    expiration.Clock      // nil uses the wall clock
}

// Build wires everything described by cfg.
func Build(cfg *config.Config, o Options) (*App, error) {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}

	st, err := OpenStore(cfg.Store, log)
	if err != nil {
		return nil, err
	}

	var profileMetrics, diseaseMetrics types.Metrics
	if o.Registry != nil {
		col := metrics.NewCollector(o.Registry)
		profileMetrics = col.Scope("profile")
		diseaseMetrics = col.Scope("disease")
	}

	common := []cache.Option{cache.WithSweepInterval(cfg.Store.SweepInterval)}
	if o.Clock != nil {
		common = append(common, cache.WithClock(o.Clock))
	}
	if cfg.Store.WriteMode == config.WriteBack {
		common = append(common, cache.WithWriteBack(cfg.Store.WriteBuffer))
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Store:  st,
		Profiles: profile.New(st, cfg.Profile.Namespace, slices.Concat(common, []cache.Option{
			cache.WithTTL(cfg.Profile.TTL),
			cache.WithMetrics(profileMetrics),
			cache.WithLogger(log.Named("profile-cache")),
		})...),
		Diseases: disease.New(st, cfg.Disease.Namespace, slices.Concat(common, []cache.Option{
			cache.WithTTL(cfg.Disease.TTL),
			cache.WithMetrics(diseaseMetrics),
			cache.WithLogger(log.Named("disease-cache")),
		})...),
	}

	if cfg.Supabase.URL != "" {
		a.Backend, err = backend.New(cfg.Supabase.URL, cfg.Supabase.Key, backend.DefaultTables, log)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

/*
OpenStore opens the durable store named by s.

A directory that cannot be created is not fatal: the cache runs memory-only,
the same as on a runtime with no durable store at all.
*/
func OpenStore(s config.Store, log *zap.Logger) (types.Store, error) {
	var st types.Store
	switch s.Kind {
	case config.StoreNone:
		return nil, nil
	case config.StoreMemory:
		st = store.NewMemory()
	case config.StoreDir:
		d, err := store.NewDir(s.Dir)
		if err != nil {
			log.Warn("durable store unavailable, running memory-only", zap.Error(err))
			return nil, nil
		}
		st = d
	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", config.ErrInvalid, s.Kind)
	}

	if s.Breaker.Enabled {
		st = store.NewGuarded(st, store.GuardSettings{
			Name:        "durable-" + s.Kind,
			MaxFailures: s.Breaker.MaxFailures,
			OpenTimeout: s.Breaker.OpenTimeout,
		}, log)
	}
	return st, nil
}

// Close drains both facades.
func (a *App) Close() {
	a.Profiles.Close()
	a.Diseases.Close()
}

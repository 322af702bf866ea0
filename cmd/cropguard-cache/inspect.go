package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	cache "github.com/Jaysum57/CropGuard-sub000"
	"github.com/Jaysum57/CropGuard-sub000/app"
	"github.com/Jaysum57/CropGuard-sub000/codec"
	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/profile"
	"github.com/Jaysum57/CropGuard-sub000/types"
)

// namespaces resolves the --namespace flag to durable key prefixes.
func namespaces(e *env, which string) ([]string, error) {
	switch which {
	case "profile":
		return []string{e.cfg.Profile.Namespace}, nil
	case "disease":
		return []string{e.cfg.Disease.Namespace}, nil
	case "all", "":
		return []string{e.cfg.Profile.Namespace, e.cfg.Disease.Namespace}, nil
	}
	return nil, fmt.Errorf("unknown namespace %q (want profile, disease or all)", which)
}

// openStore opens the configured durable store. Memory and none are refused:
// a new process would only ever see an empty store.
func openStore(e *env) (types.Store, error) {
	if e.cfg.Store.Kind != config.StoreDir {
		return nil, fmt.Errorf("store kind %q keeps nothing between runs, use %q", e.cfg.Store.Kind, config.StoreDir)
	}
	st, err := app.OpenStore(e.cfg.Store, e.log)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("store dir %q is unavailable", e.cfg.Store.Dir)
	}
	return st, nil
}

func (e *env) profileCache(st types.Store) *profile.Cache {
	return profile.New(st, e.cfg.Profile.Namespace,
		cache.WithTTL(e.cfg.Profile.TTL),
		cache.WithLogger(e.log.Named("profile-cache")),
	)
}

func (e *env) diseaseCache(st types.Store) *disease.Cache {
	return disease.New(st, e.cfg.Disease.Namespace,
		cache.WithTTL(e.cfg.Disease.TTL),
		cache.WithLogger(e.log.Named("disease-cache")),
	)
}

func listKeys(ctx context.Context, st types.Store, prefixes []string) ([]string, error) {
	all, err := st.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list durable keys: %w", err)
	}
	var out []string
	for _, k := range all {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				out = append(out, k)
				break
			}
		}
	}
	return out, nil
}

func newInspectCmd(e *env) *cobra.Command {
	var which string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print every durable record with its remaining lifetime",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prefixes, err := namespaces(e, which)
			if err != nil {
				return err
			}
			st, err := openStore(e)
			if err != nil {
				return err
			}
			keys, err := listKeys(ctx, st, prefixes)
			if err != nil {
				return err
			}

			return writeRecords(ctx, cmd.OutOrStdout(), st, keys, time.Now())
		},
	}
	cmd.Flags().StringVar(&which, "namespace", "all", "profile, disease or all")
	return cmd
}

// writeRecords prints one row per durable record: fresh, expired, corrupt or error.
func writeRecords(ctx context.Context, out io.Writer, st types.Store, keys []string, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSTATUS\tWRITTEN\tEXPIRES IN\tBYTES")
	for _, k := range keys {
		raw, ok, err := st.Get(ctx, k)
		if err != nil {
			fmt.Fprintf(w, "%s\terror\t-\t-\t-\n", k)
			continue
		}
		if !ok {
			continue
		}
		ent, err := codec.Decode[json.RawMessage](raw)
		if err != nil {
			fmt.Fprintf(w, "%s\tcorrupt\t-\t-\t%d\n", k, len(raw))
			continue
		}
		status := "fresh"
		left := ent.ExpiresAt.Sub(now).Truncate(time.Second)
		if !now.Before(ent.ExpiresAt) {
			status, left = "expired", 0
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", k, status, ent.Timestamp.UTC().Format(time.RFC3339), left, len(ent.Data))
	}
	return w.Flush()
}

func newSweepCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired and corrupt durable records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prefixes, _ := namespaces(e, "all")
			st, err := openStore(e)
			if err != nil {
				return err
			}
			before, err := listKeys(ctx, st, prefixes)
			if err != nil {
				return err
			}

			// Constructing the facades runs initialize, which prunes.
			p := e.profileCache(st)
			d := e.diseaseCache(st)
			p.Close()
			d.Close()

			after, err := listKeys(ctx, st, prefixes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d records\n", len(before)-len(after), len(before))
			return nil
		},
	}
}

func newClearCmd(e *env) *cobra.Command {
	var which string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every record in a namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := namespaces(e, which); err != nil {
				return err
			}
			st, err := openStore(e)
			if err != nil {
				return err
			}
			if which == "profile" || which == "all" || which == "" {
				p := e.profileCache(st)
				p.Clear()
				p.Close()
			}
			if which == "disease" || which == "all" || which == "" {
				d := e.diseaseCache(st)
				d.InvalidateAll()
				d.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared", which)
			return nil
		},
	}
	cmd.Flags().StringVar(&which, "namespace", "all", "profile, disease or all")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jaysum57/CropGuard-sub000/config"
	"github.com/Jaysum57/CropGuard-sub000/logging"
)

// env is what every subcommand gets after flags and config are resolved.
type env struct {
	configPath string
	envFile    string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "cropguard-cache",
		Short: "Inspect and exercise the CropGuard client cache",
		Long: `cropguard-cache works against the same durable store the CropGuard client
uses for its profile, stats and disease reference caches.

Settings come from --config (YAML), --env-file and CROPGUARD_* variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.configPath, e.envFile)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Environment, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			e.cfg, e.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&e.envFile, "env-file", ".env", "path to a .env file (ignored if missing)")

	root.AddCommand(
		newDemoCmd(e),
		newInspectCmd(e),
		newSweepCmd(e),
		newClearCmd(e),
		newBenchCmd(e),
	)
	return root
}

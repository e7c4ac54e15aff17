package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"harvest-heist/client/internal/app"
	"harvest-heist/client/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "heist",
		Short:         "Harvest Heist client core",
		Long:          "Runs the game client core: the local simulation, the ledger write path, the mirror read path and the renderer websocket.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd.Flags(), &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	flags.String("game-id", "", "session game id")
	flags.String("player-address", "", "local player ledger address")
	flags.String("mirror-endpoint", "", "indexer GraphQL endpoint")
	flags.String("signer-endpoint", "", "transaction signer endpoint")
	flags.String("listen-addr", "", "websocket and metrics listen address")

	cmd.AddCommand(newConfigInitCommand())
	return cmd
}

// newConfigInitCommand writes a starter config with the defaults filled
// in, so the required keys are visible and ready to edit.
func newConfigInitCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "config-init",
		Short: "Write a starter config file",
		RunE: func(_ *cobra.Command, _ []string) error {
			encoded, err := yaml.Marshal(config.Default())
			if err != nil {
				return err
			}
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			return os.WriteFile(out, encoded, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "config.yaml", "destination path")
	return cmd
}

// applyFlagOverrides lets individual flags win over the config file.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if v, _ := flags.GetString("game-id"); v != "" {
		cfg.Game.GameID = v
	}
	if v, _ := flags.GetString("player-address"); v != "" {
		cfg.Game.PlayerAddress = v
	}
	if v, _ := flags.GetString("mirror-endpoint"); v != "" {
		cfg.Mirror.Endpoint = v
	}
	if v, _ := flags.GetString("signer-endpoint"); v != "" {
		cfg.Ledger.SignerEndpoint = v
	}
	if v, _ := flags.GetString("listen-addr"); v != "" {
		cfg.Server.ListenAddr = v
	}
}

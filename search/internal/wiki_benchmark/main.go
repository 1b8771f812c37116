package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/larose/lynxq/search/config"
	"github.com/larose/lynxq/search/logging"
)

type rootOptions struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lynxq",
		Short: "Index a wikipedia dump and run boolean queries against it",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, json or toml)")

	cmd.AddCommand(newIndexCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newBenchCommand(opts))

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

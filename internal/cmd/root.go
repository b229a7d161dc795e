// Package cmd implements the wbkit command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kulturarv/wikibasekit/internal/config"
	"github.com/kulturarv/wikibasekit/pkg/logging"
)

var (
	configFile string
	verbose    bool

	cfg *config.Config

	// Version is set by main at build time.
	Version = "dev"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wbkit",
	Short: "Wikibase reconciliation toolkit",
	Long: `Wbkit is a toolkit for reconciling external datasets against a
Wikibase instance. It translates legacy WDQ queries to SPARQL, searches
the terms table for matching entities, and previews proposed edits
before a bot writes them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with signal-aware context.
func Execute(version string) error {
	Version = version
	rootCmd.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.wbkit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setup loads configuration and installs the default logger before any
// subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := home + "/.wbkit.yaml"
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	logger := *logging.Default()
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = logger.Level(zerolog.DebugLevel)
	}
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), &logger))

	return nil
}

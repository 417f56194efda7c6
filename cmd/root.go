// Package cmd holds the faunapedia command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/faunapedia/api-go/config"
	"github.com/faunapedia/api-go/logging"
	"github.com/faunapedia/api-go/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "faunapedia",
	Short: "Faunapedia API server and maintenance commands",
	Long: `Faunapedia serves the wildlife catalog, photo posts, quiz and
leaderboard API.

Run "faunapedia serve" to start the HTTP server. The seed and backfill
commands run the catalog maintenance tasks against the configured store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		// flags win over the environment
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		var err error
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format (json, console)")

	rootCmd.AddCommand(serveCmd, seedCmd, backfillCmd)
	backfillCmd.AddCommand(backfillLikesCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

// openStore connects the configured backend for a one-shot command.
func openStore(ctx context.Context) (store.Store, func(), error) {
	st, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	closeFn := func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}
	return st, closeFn, nil
}

// Package cmd provides the maktabactl operator commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/maktaba-search-api/internal/app"
	"github.com/maktaba-search-api/internal/config"
	"github.com/maktaba-search-api/internal/logging"
	"github.com/spf13/cobra"
)

// storeFlags override the configured page store for one invocation
type storeFlags struct {
	pageStore string
	path      string
	logLevel  string
}

// NewRootCmd creates the root command for the maktabactl CLI
func NewRootCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "maktabactl",
		Short: "Operate the maktaba search index",
		Long: `maktabactl runs searches, links citations and loads pages into the
full-text store using the same configuration as the API server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{Level: flags.logLevel})
		},
	}

	cmd.PersistentFlags().StringVar(&flags.pageStore, "page-store", "", "Page store to use: bleve or sqlite (default from PAGE_STORE)")
	cmd.PersistentFlags().StringVar(&flags.path, "store-path", "", "Path of the page store (default from SQLITE_PATH or BLEVE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newNormalizeCmd(),
		newTranslitCmd(),
		newLinkCmd(),
		newSearchCmd(&flags),
		newTopicCmd(&flags),
		newIndexCmd(&flags),
	)
	return cmd
}

// resolveConfig copies the shared configuration and applies flag overrides
func (f *storeFlags) resolveConfig() *config.Config {
	cfg := *config.GetConfig()
	if f.pageStore != "" {
		cfg.PageStore = f.pageStore
	}
	if f.path != "" {
		switch cfg.PageStore {
		case app.PageStoreSQLite:
			cfg.SQLitePath = f.path
		default:
			cfg.BlevePath = f.path
		}
	}
	return &cfg
}

// open wires the application for one command
func (f *storeFlags) open(ctx context.Context) (*app.App, error) {
	a, err := app.Build(ctx, f.resolveConfig())
	if err != nil {
		return nil, fmt.Errorf("open maktaba: %w", err)
	}
	return a, nil
}

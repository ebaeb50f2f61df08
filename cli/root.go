// Package cli implements the portfolio26 commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surafelx/portfolio26/config"
	"github.com/surafelx/portfolio26/logx"
)

type options struct {
	driver string
}

// NewRootCmd builds the command tree. Running it without a subcommand serves.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "portfolio26",
		Short:         "Portfolio site with an embedded CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Store driver, mongo or sqlite (default: $STORE_DRIVER)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

// Execute runs the CLI until SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger.
func setup(opts *options) (config.Config, *logx.Logger, error) {
	cfg, found := config.Load()
	if opts.driver != "" {
		cfg.StoreDriver = opts.driver
	}
	log, err := logx.New(cfg.Mode)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	if !found {
		log.Debug("no .env file found; using system environment")
	}
	return cfg, log, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surafelx/portfolio26/articles"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/notes"
	"github.com/surafelx/portfolio26/server"
	"github.com/surafelx/portfolio26/store"
)

func newMigrateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite legacy documents into block form",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "notes",
			Short: "Convert notes with a flat content body into blocks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBackend(cmd, opts, func(ctx context.Context, b *store.Backend, log *logx.Logger) error {
					n, err := notes.NewService(b.Notes, content.Deps{Log: log}).MigrateLegacy(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "migrated %d notes\n", n)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "articles",
			Short: "Split legacy article bodies into heading, code and paragraph blocks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBackend(cmd, opts, func(ctx context.Context, b *store.Backend, log *logx.Logger) error {
					n, err := articles.NewService(b.Articles, content.Deps{Log: log}).MigrateLegacy(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "migrated %d articles\n", n)
					return err
				})
			},
		},
	)
	return cmd
}

// withBackend opens the configured store for a one-off command and closes
// it afterwards.
func withBackend(cmd *cobra.Command, opts *options, fn func(context.Context, *store.Backend, *logx.Logger) error) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := server.OpenBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("store close failed", "error", cerr)
		}
	}()
	return fn(ctx, b, log)
}

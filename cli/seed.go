package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surafelx/portfolio26/about"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/store"
)

func newSeedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load documents from files",
	}

	var file string
	aboutCmd := &cobra.Command{
		Use:   "about",
		Short: "Replace the about profile with the JSON document in --file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read profile: %w", err)
			}
			var profile models.About
			if err := json.Unmarshal(raw, &profile); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}
			return withBackend(cmd, opts, func(ctx context.Context, b *store.Backend, log *logx.Logger) error {
				saved, err := about.NewService(b.About, content.Deps{Log: log}).Replace(ctx, profile)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "about profile saved (updated %s)\n", saved.UpdatedAt.Format("2006-01-02 15:04:05"))
				return nil
			})
		},
	}
	aboutCmd.Flags().StringVar(&file, "file", "profile.json", "JSON file holding the profile")

	cmd.AddCommand(aboutCmd)
	return cmd
}

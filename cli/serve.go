package cli

import (
	"github.com/spf13/cobra"

	"github.com/surafelx/portfolio26/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := server.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context())
}

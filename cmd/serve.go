package main

import (
	"github.com/spf13/cobra"

	"github.com/powderlines/resort-cli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		srv := server.New(st, server.Options{
			Port:       cfg.Server.Port,
			AdminToken: cfg.Server.AdminToken,
		})
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

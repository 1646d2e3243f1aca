package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marlowe-fi/centsible/internal/api"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the check-in HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			server := api.NewServer(eng, store, slog.Default())
			return server.ListenAndServe(cmd.Context(), viper.GetString("server.addr"))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

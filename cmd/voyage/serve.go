package main

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/voyage/internal/infrastructure/container"
	"github.com/reglet-dev/voyage/internal/infrastructure/system"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the HTTP service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the URL preview service",
	Long: `Serve the front end, the fetch proxy at POST /api/fetch-url and the flag
vault at GET /api/flag-vault. The flag is read once at startup from CTF_FLAG.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), sysConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "listen address (default :3000)")
	serveCmd.Flags().Duration("relay-timeout", 0, "outbound request timeout, 0 for none")
	serveCmd.Flags().Bool("follow-redirects", false, "follow redirects on outbound requests")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("relay-timeout", serveCmd.Flags().Lookup("relay-timeout"))
	_ = viper.BindPFlag("follow-redirects", serveCmd.Flags().Lookup("follow-redirects"))
}

func runServe(ctx context.Context, cfg *system.Config) error {
	c, err := container.New(container.Options{
		Logger:   slog.Default(),
		Config:   cfg,
		Provider: sensitiveValues,
	})
	if err != nil {
		return err
	}

	slog.Info("starting voyage",
		"listen", cfg.Server.Listen,
		"guard_mode", cfg.Guard.GetGuardMode(),
		"metrics", cfg.Server.MetricsEnabled)
	if cfg.Guard.GetGuardMode() == system.GuardModeLiteral {
		slog.Warn("literal guard mode: IPv6 literals and resolved addresses are not inspected")
	}
	if cfg.Relay.Timeout == 0 {
		slog.Warn("relay timeout disabled: a slow target can hold a request open indefinitely")
	}

	return c.Server().Run(ctx)
}

// cmd/campaign-enricher/serve.go
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"campaign-enricher/internal/app"
	"campaign-enricher/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the enrichment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeApp(a)

		return server.New(cfg.Server, a.Handler, a.Ready, log).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override server.port")
}

func closeApp(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Warn("shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
}

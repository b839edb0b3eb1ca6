// cmd/campaign-enricher/worker.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"campaign-enricher/internal/app"
	"campaign-enricher/internal/common/camunda"
	"campaign-enricher/internal/common/config"
	"campaign-enricher/internal/server"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the enrich-campaign-data Zeebe job worker alongside the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireBroker(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeApp(a)

		client, err := camunda.Connect(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			return err
		}
		defer client.Close()

		ready := func(ctx context.Context) error {
			if err := client.HealthCheck(ctx); err != nil {
				return err
			}
			return a.Ready(ctx)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return server.New(cfg.Server, a.Handler, ready, log).Run(gctx)
		})
		g.Go(func() error {
			if !config.IsWorkerEnabled(cfg, ecd.TaskType) {
				log.Info("worker disabled", map[string]interface{}{"taskType": ecd.TaskType})
				return nil
			}
			wcfg := config.GetWorkerConfig(cfg, ecd.TaskType)
			w := camunda.StartWorker(client.GetClient(), ecd.TaskType, camunda.WorkerConfig{
				MaxJobsActive: wcfg.MaxJobsActive,
				Timeout:       config.GetDuration(wcfg.Timeout),
			}, a.Handler.Handle, log)

			<-gctx.Done()
			w.Stop()
			return nil
		})
		return g.Wait()
	},
}

// cmd/campaign-enricher/migrate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"campaign-enricher/internal/common/database"
	"campaign-enricher/internal/producers"
)

var migrateFlushCache bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the benchmark table and events index used by the producers",
	Long: `Creates ad_benchmarks in Postgres and the events index in Elasticsearch when
they are configured and missing. With --flush-cache, cached benchmark rows are
removed from Redis so the next lookups read the table again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db := cfg.Database
		out := cmd.OutOrStdout()
		ran := false

		if db.Postgres.Enabled() {
			ran = true
			pg, err := database.NewPostgres(db.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.EnsureBenchmarkSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "postgres: ad_benchmarks ready")
		}

		if db.Elasticsearch.Enabled() {
			ran = true
			es, err := database.NewElasticsearch(db.Elasticsearch)
			if err != nil {
				return err
			}
			created, err := es.EnsureEventsIndex(ctx, db.Elasticsearch.EventsIndex)
			if err != nil {
				return err
			}
			state := "exists"
			if created {
				state = "created"
			}
			fmt.Fprintf(out, "elasticsearch: index %s %s\n", db.Elasticsearch.EventsIndex, state)
		}

		if migrateFlushCache && db.Redis.Enabled() {
			ran = true
			rdb := database.NewRedis(db.Redis)
			defer rdb.Close()
			deleted, err := rdb.DeletePrefix(ctx, producers.BenchmarkCachePrefix)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "redis: %d cached benchmark entries removed\n", deleted)
		}

		if !ran {
			log.Warn("no backends configured, nothing to migrate", nil)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlushCache, "flush-cache", false, "remove cached benchmark rows from redis")
}

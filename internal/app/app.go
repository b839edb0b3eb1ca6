// Package app assembles the enrichment service from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	commonaws "campaign-enricher/internal/common/aws"
	apperrors "campaign-enricher/internal/common/errors"
	"campaign-enricher/internal/common/config"
	"campaign-enricher/internal/common/database"
	commonhttp "campaign-enricher/internal/common/http"
	"campaign-enricher/internal/common/logger"
	"campaign-enricher/internal/common/observability"
	"campaign-enricher/internal/enrichment"
	"campaign-enricher/internal/producers"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
	"campaign-enricher/pkg/registry"
)

const pingTimeout = 3 * time.Second

// App holds the wired handler and the resources it owns.
type App struct {
	Config  *config.Config
	Handler *ecd.Handler
	Obs     *observability.Observability

	logger   logger.Logger
	postgres *database.PostgresClient
	redis    *database.RedisClient
	search   *database.ElasticsearchClient
}

// New connects the configured backends and builds the handler. Backends
// that are configured but unreachable are kept; producers degrade per call
// and readiness reports them.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, obsOpts ...observability.Option) (*App, error) {
	a := &App{Config: cfg, logger: log}

	obsOpts = append([]observability.Option{observability.WithSampleRatio(cfg.Telemetry.TraceSampleRatio)}, obsOpts...)
	obs, err := observability.New(cfg.App.Name, obsOpts...)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}
	a.Obs = obs

	backends, err := a.connect(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	set := producers.NewSet(producers.Settings{
		TrendsBaseURL: cfg.APIs.SearchTrends.BaseURL,
		EventsIndex:   cfg.Database.Elasticsearch.EventsIndex,
		CacheTTL:      config.GetDuration(cfg.Enrichment.CacheTTL),
	}, backends, log)

	orch := enrichment.NewOrchestrator(set, enrichment.Config{
		ProducerTimeout: config.GetDuration(cfg.Enrichment.ProducerTimeout),
		TrendsTimeout:   config.GetDuration(cfg.Enrichment.TrendsTimeout),
		RepairSurvey:    cfg.Enrichment.RepairSurvey,
	}, log, enrichment.WithTracer(obs.Tracer()))

	handlerCfg, err := a.handlerConfig()
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	opts := []ecd.Option{ecd.WithObservability(obs)}
	if cfg.Integrations.AWS.SNS.Enabled {
		notifier, err := commonaws.NewNotifier(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.TopicARN)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("init sns notifier: %w", err)
		}
		opts = append(opts, ecd.WithNotifier(notifier))
	}

	a.Handler = ecd.NewHandler(handlerCfg, orch, log, opts...)
	return a, nil
}

func (a *App) connect(ctx context.Context) (producers.Backends, error) {
	var backends producers.Backends
	db := a.Config.Database

	if db.Postgres.Enabled() {
		pg, err := database.NewPostgres(db.Postgres)
		if err != nil {
			return backends, err
		}
		a.postgres = pg
		backends.DB = pg.DB
		a.checkBackend(ctx, "postgres", pg.Ping)
	}

	if db.Redis.Enabled() {
		a.redis = database.NewRedis(db.Redis)
		backends.Cache = a.redis.Client
		a.checkBackend(ctx, "redis", a.redis.Ping)
	}

	if db.Elasticsearch.Enabled() {
		es, err := database.NewElasticsearch(db.Elasticsearch)
		if err != nil {
			return backends, err
		}
		a.search = es
		backends.Search = es.Client
		a.checkBackend(ctx, "elasticsearch", es.Ping)
	}

	if trends := a.Config.APIs.SearchTrends; trends.BaseURL != "" {
		client := commonhttp.NewClient(config.GetDuration(trends.Timeout))
		if trends.APIKey != "" {
			client = client.WithHeader("X-API-Key", trends.APIKey)
		}
		backends.HTTP = client
	}
	return backends, nil
}

// checkBackend logs whether a backend answers. It never fails startup.
func (a *App) checkBackend(ctx context.Context, name string, ping func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		a.logger.Warn("backend unreachable, lookups will degrade", map[string]interface{}{
			"backend": name,
			"error":   err.Error(),
		})
		return
	}
	a.logger.Info("backend connected", map[string]interface{}{"backend": name})
}

func (a *App) handlerConfig() (*ecd.Config, error) {
	hc := ecd.LoadConfig()
	hc.Timeout = config.GetDuration(config.GetWorkerConfig(a.Config, ecd.TaskType).Timeout)
	hc.ValidateOutput = a.Config.Enrichment.ValidateOutput
	if !hc.ValidateOutput {
		return hc, nil
	}

	reg, err := registry.Load(a.Config.Enrichment.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load activity registry: %w", err)
	}
	activity, ok := reg.Find(ecd.TaskType)
	if !ok {
		return nil, fmt.Errorf("activity registry has no %q activity", ecd.TaskType)
	}
	hc.OutputSchema = activity.OutputSchema
	if _, configured := a.Config.Workers[ecd.TaskType]; !configured {
		hc.Timeout = activity.TimeoutDuration(hc.Timeout)
	}
	if code := string(apperrors.ErrCodePayloadInvalid); !activity.Throws(code) {
		a.logger.Warn("activity does not declare an error code the handler throws", map[string]interface{}{
			"activity":  activity.ID,
			"errorCode": code,
		})
	}
	return hc, nil
}

// Ready pings every configured backend.
func (a *App) Ready(ctx context.Context) error {
	var result *multierror.Error
	if a.postgres != nil {
		result = multierror.Append(result, a.postgres.Ping(ctx))
	}
	if a.redis != nil {
		result = multierror.Append(result, a.redis.Ping(ctx))
	}
	if a.search != nil {
		result = multierror.Append(result, a.search.Ping(ctx))
	}
	return result.ErrorOrNil()
}

// Close releases backends and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	var result *multierror.Error
	if a.postgres != nil {
		result = multierror.Append(result, a.postgres.Close())
	}
	if a.redis != nil {
		result = multierror.Append(result, a.redis.Close())
	}
	result = multierror.Append(result, a.Obs.Shutdown(ctx))
	return result.ErrorOrNil()
}

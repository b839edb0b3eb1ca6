package producers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "campaign-enricher/internal/common/errors"
	"campaign-enricher/internal/common/metrics"
	"campaign-enricher/internal/models"
)

const (
	benchmarkQuery       = `SELECT platform, avg_cpc, avg_ctr, seasonal_multiplier FROM ad_benchmarks WHERE industry = $1`
	BenchmarkCachePrefix = "enrichment:benchmarks:"
)

type AdBenchmarks struct {
	CPC                PlatformRates `json:"cpc"`
	Conversion         PlatformRates `json:"conversion"`
	SeasonalMultiplier float64       `json:"seasonalMultiplier"`
	RecommendedBudget  Budget        `json:"recommendedBudget"`
	Source             string        `json:"source"`
}

type PlatformRates struct {
	Meta   float64 `json:"meta"`
	Google float64 `json:"google"`
}

type Budget struct {
	Daily float64 `json:"daily"`
}

// BenchmarkRow is one ad_benchmarks record.
type BenchmarkRow struct {
	Platform           string  `json:"platform"`
	AvgCPC             float64 `json:"avgCpc"`
	AvgCTR             float64 `json:"avgCtr"`
	SeasonalMultiplier float64 `json:"seasonalMultiplier"`
}

// AdPlatform reports cost and conversion benchmarks. With a database it reads
// the industry's ad_benchmarks rows, cached in Redis; store failures degrade
// to the campaign's own metrics.
type AdPlatform struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   Logger
}

// NewAdPlatform accepts nil db and cache.
func NewAdPlatform(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log Logger) *AdPlatform {
	return &AdPlatform{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (p *AdPlatform) Name() string {
	return NameAdPlatform
}

func (p *AdPlatform) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := AdBenchmarks{
		CPC:               PlatformRates{Meta: input.Metrics.CPC, Google: input.Metrics.CPC},
		Conversion:        PlatformRates{Meta: input.Metrics.CTR, Google: input.Metrics.CTR},
		RecommendedBudget: Budget{Daily: input.Metrics.Goals.TotalSales},
		Source:            "input",
	}
	if p.db == nil {
		return report, nil
	}

	rows, err := p.benchmarks(ctx, input.Industry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("benchmark lookup failed, using campaign metrics", map[string]interface{}{
			"industry":  input.Industry,
			"errorCode": string(apperrors.ErrCodeBenchmarkQueryFailed),
			"error":     err.Error(),
		})
		return report, nil
	}
	if len(rows) == 0 {
		return report, nil
	}

	for _, row := range rows {
		switch strings.ToLower(row.Platform) {
		case "meta", "facebook":
			report.CPC.Meta = row.AvgCPC
			report.Conversion.Meta = row.AvgCTR
		case "google":
			report.CPC.Google = row.AvgCPC
			report.Conversion.Google = row.AvgCTR
		}
		if row.SeasonalMultiplier > report.SeasonalMultiplier {
			report.SeasonalMultiplier = row.SeasonalMultiplier
		}
	}
	if report.SeasonalMultiplier > 0 {
		report.RecommendedBudget.Daily = input.Metrics.Goals.TotalSales * report.SeasonalMultiplier
	}
	report.Source = "benchmarks"
	return report, nil
}

// benchmarks returns the rows for industry, reading through the cache.
func (p *AdPlatform) benchmarks(ctx context.Context, industry string) ([]BenchmarkRow, error) {
	key := BenchmarkCachePrefix + strings.ToLower(industry)

	if rows, ok := p.cached(ctx, key); ok {
		return rows, nil
	}

	rows, err := p.query(ctx, industry)
	if err != nil {
		return nil, apperrors.NewBenchmarkQueryFailedError(industry, err)
	}

	if p.cache != nil && len(rows) > 0 {
		data, _ := json.Marshal(rows)
		if err := p.cache.Set(ctx, key, data, p.cacheTTL).Err(); err != nil {
			p.logger.Warn("failed to cache benchmarks", map[string]interface{}{
				"key":       key,
				"errorCode": string(apperrors.ErrCodeCacheUnavailable),
				"error":     err.Error(),
			})
		}
	}
	return rows, nil
}

func (p *AdPlatform) cached(ctx context.Context, key string) ([]BenchmarkRow, bool) {
	if p.cache == nil {
		return nil, false
	}

	val, err := p.cache.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.BenchmarkCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.BenchmarkCacheLookups.WithLabelValues("error").Inc()
		p.logger.Warn("benchmark cache unavailable", map[string]interface{}{
			"key":       key,
			"errorCode": string(apperrors.ErrCodeCacheUnavailable),
			"error":     err.Error(),
		})
		return nil, false
	}

	var rows []BenchmarkRow
	if err := json.Unmarshal([]byte(val), &rows); err != nil {
		metrics.BenchmarkCacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.BenchmarkCacheLookups.WithLabelValues("hit").Inc()
	return rows, true
}

func (p *AdPlatform) query(ctx context.Context, industry string) ([]BenchmarkRow, error) {
	rows, err := p.db.QueryContext(ctx, benchmarkQuery, strings.ToLower(industry))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BenchmarkRow
	for rows.Next() {
		var row BenchmarkRow
		var seasonal sql.NullFloat64
		if err := rows.Scan(&row.Platform, &row.AvgCPC, &row.AvgCTR, &seasonal); err != nil {
			return nil, err
		}
		row.SeasonalMultiplier = seasonal.Float64
		out = append(out, row)
	}
	return out, rows.Err()
}

package producers

import (
	"database/sql"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	commonhttp "campaign-enricher/internal/common/http"
	"campaign-enricher/internal/enrichment"
)

// Backends holds the optional data sources. Nil fields disable the lookup
// that needs them.
type Backends struct {
	DB     *sql.DB
	Cache  *redis.Client
	Search *elasticsearch.Client
	HTTP   *commonhttp.Client
}

// Settings configures the backed producers.
type Settings struct {
	TrendsBaseURL string
	EventsIndex   string
	CacheTTL      time.Duration
}

// NewSet wires the six producers into their orchestrator slots. Trend
// producers keep the order search, social, weather.
func NewSet(settings Settings, backends Backends, log Logger) enrichment.Producers {
	return enrichment.Producers{
		Demographics: NewDemographics(),
		Trends: []enrichment.Producer{
			NewSearchTrends(backends.HTTP, settings.TrendsBaseURL, log),
			NewSocialMedia(),
			NewWeather(),
		},
		Benchmarks: NewAdPlatform(backends.DB, backends.Cache, settings.CacheTTL, log),
		Events:     NewCalendar(backends.Search, settings.EventsIndex, log),
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-enricher/internal/common/config"
	"campaign-enricher/internal/common/logger"
	"campaign-enricher/internal/common/observability"
	"campaign-enricher/internal/models"
	"campaign-enricher/internal/producers"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

const testBody = `{"context": {
	"ai_parse_user_input_": "### Confirmed Details\n- Location: Austin\n- Product: Running Shoes",
	"parsed_follow_up_user_input": "{\"historical\": {\"peak_period\": \"June - August\"}}"
}}`

func loadTestConfig(t *testing.T, yaml string) *config.Config {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	a, err := New(context.Background(), cfg, logger.NewTestLogger(t),
		observability.WithRegisterer(promclient.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func execute(t *testing.T, a *App) models.EnrichmentResponse {
	body := testBody
	out, err := a.Handler.Execute(context.Background(), &ecd.Input{Body: &body})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, out.StatusCode)
	return out.Response.(models.EnrichmentResponse)
}

func TestNew_InputOnly(t *testing.T) {
	a := newTestApp(t, loadTestConfig(t, "app:\n  name: campaign-enricher\n"))

	resp := execute(t, a)
	assert.Len(t, resp.EnrichedData.Trends, 3)
	assert.Equal(t, "input", resp.EnrichedData.Benchmarks.(producers.AdBenchmarks).Source)
	assert.Equal(t, "input", resp.EnrichedData.Events.(producers.CalendarEvents).Source)
	assert.NoError(t, a.Ready(context.Background()))
}

func TestNew_WiresBackends(t *testing.T) {
	trends := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"queries": ["austin running club"], "interest": [{"date": "2026-06-01", "value": 80}]}`))
	}))
	defer trends.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"version": {"number": "8.11.0"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"hits": {"hits": [{"_source": {"name": "Summer Sale", "type": "sale"}}]}}`))
	}))
	defer search.Close()

	mr := miniredis.RunT(t)

	a := newTestApp(t, loadTestConfig(t, fmt.Sprintf(`
database:
  redis:
    address: %s
  elasticsearch:
    url: %s
apis:
  search_trends:
    base_url: %s
    api_key: secret
`, mr.Addr(), search.URL, trends.URL)))

	resp := execute(t, a)
	require.Len(t, resp.EnrichedData.Trends, 3)
	assert.Equal(t, "api", resp.EnrichedData.Trends[0].(producers.SearchTrendsReport).Source)

	events := resp.EnrichedData.Events.(producers.CalendarEvents)
	assert.Equal(t, "events", events.Source)
	assert.Contains(t, events.Commercial, "Summer Sale")

	assert.NoError(t, a.Ready(context.Background()))

	mr.Close()
	err := a.Ready(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNew_RegistryMissing(t *testing.T) {
	cfg := loadTestConfig(t, "enrichment:\n  registry_path: /nonexistent/activities.json\n")

	_, err := New(context.Background(), cfg, logger.NewTestLogger(t),
		observability.WithRegisterer(promclient.NewRegistry()))
	assert.ErrorContains(t, err, "load activity registry")
}

func TestNew_ValidationDisabledSkipsRegistry(t *testing.T) {
	cfg := loadTestConfig(t, "enrichment:\n  validate_output: false\n  registry_path: /nonexistent/activities.json\n")
	a := newTestApp(t, cfg)
	assert.NotNil(t, a.Handler)
}

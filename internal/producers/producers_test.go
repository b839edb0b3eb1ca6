package producers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-enricher/internal/enrichment"
	"campaign-enricher/internal/models"
)

// ==========================
// Test Helpers
// ==========================

type TestLogger struct {
	t     *testing.T
	warns []map[string]interface{}
}

func (l *TestLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
	l.t.Logf("WARN: %s %v", msg, fields)
}

func createTestInput() models.CampaignInput {
	return models.CampaignInput{
		Location: "Austin",
		Target:   models.Audience{Age: "25-34", Gender: "Female", Income: "75k-100k", Type: "families in a relationship"},
		Timing:   models.Timing{Start: "June", End: "August"},
		Product:  "Running Shoes",
		Industry: "retail",
		Metrics: models.CampaignMetrics{
			CTR:        1.8,
			CPC:        0.75,
			BestFormat: "carousel",
			Goals:      models.Goals{StoreVisits: 1200, TotalSales: 50000},
		},
		Platforms: models.Platforms{Preferred: []string{"meta", "google"}},
	}
}

// ==========================
// Input-derived Producers
// ==========================

func TestDemographics(t *testing.T) {
	out, err := NewDemographics().Produce(context.Background(), createTestInput())
	require.NoError(t, err)

	report, ok := out.(DemographicsReport)
	require.True(t, ok)
	assert.Equal(t, 1200, report.MarketSize.TotalPopulation)
	assert.Equal(t, "Female 25-34 Austin", report.MarketSize.TargetPopulation)
	assert.Equal(t, "75k-100k", report.MarketSize.HouseholdData.Income)
	assert.Equal(t, map[string]string{"75k-100k": "families in a relationship"}, report.Income.Brackets)
	assert.True(t, report.Relationships.Coupled)
	assert.False(t, report.Relationships.Single)
	assert.Equal(t, "Female", report.AgeGroups["25-34"])
	assert.Equal(t, MediaPreferences{Social: "high", Search: "high", Display: "low"}, report.AgeGroups["mediaPreferences"])
}

func TestDemographics_EmptyInput(t *testing.T) {
	out, err := NewDemographics().Produce(context.Background(), models.CampaignInput{})
	require.NoError(t, err)

	report := out.(DemographicsReport)
	assert.Empty(t, report.Income.Brackets)
	assert.NotContains(t, report.AgeGroups, "")
	assert.Equal(t, "", report.MarketSize.TargetPopulation)
}

func TestSocialMedia(t *testing.T) {
	out, err := NewSocialMedia().Produce(context.Background(), createTestInput())
	require.NoError(t, err)

	stats := out.(SocialMediaStats)
	assert.Equal(t, 1200, stats.Meta.AudienceSize)
	assert.Equal(t, []string{"families in a relationship", "retail"}, stats.Meta.Interests)
	assert.Equal(t, defaultPeakHours, stats.Meta.PeakHours)
	assert.Equal(t, []string{"#runningshoes", "#austin"}, stats.Instagram.Hashtags)
	assert.Equal(t, 1.8, stats.Instagram.EngagementRate)

	input := createTestInput()
	input.Platforms.Preferred = []string{"radio"}
	out, err = NewSocialMedia().Produce(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, out.(SocialMediaStats).Meta.PeakHours)
}

func TestWeather(t *testing.T) {
	out, err := NewWeather().Produce(context.Background(), createTestInput())
	require.NoError(t, err)

	outlook := out.(WeatherOutlook)
	assert.Equal(t, "Austin", outlook.ShoppingImpact)
	assert.Equal(t, []string{"August"}, outlook.ContingencyDates)
	assert.NotNil(t, outlook.Forecast)
}

func TestProducers_HonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set := NewSet(Settings{}, Backends{}, &TestLogger{t: t})
	all := append([]enrichment.Producer{set.Demographics, set.Benchmarks, set.Events}, set.Trends...)

	for _, p := range all {
		_, err := p.Produce(ctx, createTestInput())
		assert.ErrorIs(t, err, context.Canceled, p.Name())
	}
}

func TestNewSet(t *testing.T) {
	set := NewSet(Settings{EventsIndex: "campaign_events"}, Backends{}, &TestLogger{t: t})

	assert.Equal(t, NameDemographics, set.Demographics.Name())
	require.Len(t, set.Trends, 3)
	assert.Equal(t, NameSearchTrends, set.Trends[0].Name())
	assert.Equal(t, NameSocialMedia, set.Trends[1].Name())
	assert.Equal(t, NameWeather, set.Trends[2].Name())
	assert.Equal(t, NameAdPlatform, set.Benchmarks.Name())
	assert.Equal(t, NameCalendar, set.Events.Name())
}

func TestAppendUnique(t *testing.T) {
	assert.Equal(t, []string{"shoes", "Boots"}, appendUnique([]string{"shoes"}, "Shoes", "Boots", " ", "boots"))
	assert.Equal(t, []string{}, nonEmpty("", "  "))
}

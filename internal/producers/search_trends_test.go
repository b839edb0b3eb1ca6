package producers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campaign-enricher/internal/common/errors"
	commonhttp "campaign-enricher/internal/common/http"
	"campaign-enricher/internal/models"
)

func TestSearchTrends_InputOnly(t *testing.T) {
	out, err := NewSearchTrends(nil, "", &TestLogger{t: t}).Produce(context.Background(), createTestInput())
	require.NoError(t, err)

	report := out.(SearchTrendsReport)
	assert.Equal(t, []string{"Running Shoes", "Austin"}, report.RelatedQueries)
	assert.Equal(t, []InterestPoint{{Date: "June", Value: 1.8}}, report.InterestOverTime)
	assert.Equal(t, []string{"Austin"}, report.GeoTargets)
	assert.Equal(t, "input", report.Source)
}

func TestSearchTrends_API(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/related", r.URL.Path)
		assert.Equal(t, "Running Shoes", r.URL.Query().Get("q"))
		assert.Equal(t, "Austin", r.URL.Query().Get("geo"))
		assert.Equal(t, "June", r.URL.Query().Get("from"))
		assert.Equal(t, "key-123", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"queries": ["running shoes", "trail running shoes", "austin marathon"],
			"interest": [{"date": "2024-06-01", "value": 72}, {"date": "2024-07-01", "value": 88}]
		}`))
	}))
	defer server.Close()

	client := commonhttp.NewClient(time.Second).WithHeader("X-API-Key", "key-123")
	out, err := NewSearchTrends(client, server.URL+"/v1/", &TestLogger{t: t}).Produce(context.Background(), createTestInput())
	require.NoError(t, err)

	report := out.(SearchTrendsReport)
	assert.Equal(t, []string{"Running Shoes", "Austin", "trail running shoes", "austin marathon"}, report.RelatedQueries)
	assert.Len(t, report.InterestOverTime, 2)
	assert.Equal(t, "api", report.Source)
}

func TestSearchTrends_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out, err := NewSearchTrends(commonhttp.NewClient(time.Second), server.URL, &TestLogger{t: t}).
		Produce(context.Background(), createTestInput())

	assert.Nil(t, out)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTrendsAPIFailed))
}

func TestSearchTrends_SkipsAPIWithoutTerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("trends API should not be called")
	}))
	defer server.Close()

	out, err := NewSearchTrends(commonhttp.NewClient(time.Second), server.URL, &TestLogger{t: t}).
		Produce(context.Background(), models.CampaignInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, out.(SearchTrendsReport).RelatedQueries)
}

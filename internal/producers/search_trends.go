package producers

import (
	"context"
	"net/url"
	"strings"

	apperrors "campaign-enricher/internal/common/errors"
	commonhttp "campaign-enricher/internal/common/http"
	"campaign-enricher/internal/models"
)

type SearchTrendsReport struct {
	RelatedQueries   []string        `json:"relatedQueries"`
	InterestOverTime []InterestPoint `json:"interestOverTime"`
	GeoTargets       []string        `json:"geoTargets"`
	Source           string          `json:"source"`
}

type InterestPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// trendsResponse is the payload of GET {base_url}/related.
type trendsResponse struct {
	Queries  []string        `json:"queries"`
	Interest []InterestPoint `json:"interest"`
}

// SearchTrends reports search interest for the product and location. With a
// client configured it merges the related queries served by the trends API.
type SearchTrends struct {
	client  *commonhttp.Client
	baseURL string
	logger  Logger
}

// NewSearchTrends returns an input-derived producer when client is nil or
// baseURL is empty.
func NewSearchTrends(client *commonhttp.Client, baseURL string, log Logger) *SearchTrends {
	return &SearchTrends{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

func (s *SearchTrends) Name() string {
	return NameSearchTrends
}

func (s *SearchTrends) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := SearchTrendsReport{
		RelatedQueries: nonEmpty(input.Product, input.Location),
		InterestOverTime: []InterestPoint{
			{Date: input.Timing.Start, Value: input.Metrics.CTR},
		},
		GeoTargets: nonEmpty(input.Location),
		Source:     "input",
	}

	if s.client == nil || s.baseURL == "" || (input.Product == "" && input.Location == "") {
		return report, nil
	}

	var resp trendsResponse
	if err := s.client.GetJSON(ctx, s.relatedURL(input), &resp); err != nil {
		return nil, apperrors.NewTrendsAPIFailedError(err)
	}

	report.RelatedQueries = appendUnique(report.RelatedQueries, resp.Queries...)
	if len(resp.Interest) > 0 {
		report.InterestOverTime = resp.Interest
	}
	report.Source = "api"

	s.logger.Debug("search trends fetched", map[string]interface{}{
		"queries":  len(resp.Queries),
		"interest": len(resp.Interest),
	})
	return report, nil
}

func (s *SearchTrends) relatedURL(input models.CampaignInput) string {
	params := url.Values{}
	if input.Product != "" {
		params.Set("q", input.Product)
	}
	if input.Location != "" {
		params.Set("geo", input.Location)
	}
	if input.Timing.Start != "" {
		params.Set("from", input.Timing.Start)
	}
	if input.Timing.End != "" {
		params.Set("to", input.Timing.End)
	}
	return s.baseURL + "/related?" + params.Encode()
}

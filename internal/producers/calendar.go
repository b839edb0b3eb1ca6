package producers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "campaign-enricher/internal/common/errors"
	"campaign-enricher/internal/models"
)

const maxCalendarEvents = 20

type CalendarEvents struct {
	MainEvent  string          `json:"mainEvent"`
	Related    []CalendarEvent `json:"related"`
	Commercial []string        `json:"commercial"`
	Competitor []string        `json:"competitor"`
	Source     string          `json:"source"`
}

// CalendarEvent is a document in the events index.
type CalendarEvent struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Calendar lists events around the campaign window. With an Elasticsearch
// client it searches the events index by location and peak period.
type Calendar struct {
	es     *elasticsearch.Client
	index  string
	logger Logger
}

// NewCalendar accepts a nil client.
func NewCalendar(es *elasticsearch.Client, index string, log Logger) *Calendar {
	return &Calendar{es: es, index: index, logger: log}
}

func (c *Calendar) Name() string {
	return NameCalendar
}

func (c *Calendar) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := CalendarEvents{
		MainEvent:  input.Timing.Start,
		Related:    []CalendarEvent{},
		Commercial: nonEmpty(input.Location),
		Competitor: append([]string{}, input.Platforms.Preferred...),
		Source:     "input",
	}
	if c.es == nil || input.Location == "" {
		return report, nil
	}

	events, err := c.search(ctx, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("event search failed, using campaign timing", map[string]interface{}{
			"index":     c.index,
			"errorCode": string(apperrors.ErrCodeEventSearchFailed),
			"error":     err.Error(),
		})
		return report, nil
	}

	for _, ev := range events {
		switch strings.ToLower(ev.Type) {
		case "commercial", "holiday", "sale":
			report.Commercial = appendUnique(report.Commercial, ev.Name)
		case "competitor":
			report.Competitor = appendUnique(report.Competitor, ev.Name)
		default:
			report.Related = append(report.Related, ev)
		}
	}
	if report.MainEvent == "" && len(events) > 0 {
		report.MainEvent = events[0].Name
	}
	report.Source = "events"
	return report, nil
}

func (c *Calendar) search(ctx context.Context, input models.CampaignInput) ([]CalendarEvent, error) {
	should := []interface{}{}
	for _, period := range nonEmpty(input.Timing.Start, input.Timing.End) {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{"period": period},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{"match": map[string]interface{}{"location": input.Location}},
				},
				"should": should,
			},
		},
		"size": maxCalendarEvents,
		"sort": []interface{}{"_score", map[string]interface{}{"date": map[string]interface{}{"order": "asc", "unmapped_type": "date"}}},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return nil, apperrors.NewEventSearchFailedError(c.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewEventSearchFailedError(c.index, fmt.Errorf("search failed: %s", res.Status()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source CalendarEvent `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewEventSearchFailedError(c.index, err)
	}

	events := make([]CalendarEvent, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		if hit.Source.Name != "" {
			events = append(events, hit.Source)
		}
	}
	return events, nil
}

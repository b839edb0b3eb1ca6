package producers

import (
	"context"

	"campaign-enricher/internal/models"
)

type WeatherOutlook struct {
	Forecast         []string `json:"forecast"`
	ShoppingImpact   string   `json:"shoppingImpact"`
	ContingencyDates []string `json:"contingencyDates"`
}

// Weather flags the campaign window for weather contingencies.
type Weather struct{}

func NewWeather() *Weather {
	return &Weather{}
}

func (w *Weather) Name() string {
	return NameWeather
}

func (w *Weather) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return WeatherOutlook{
		Forecast:         []string{},
		ShoppingImpact:   input.Location,
		ContingencyDates: nonEmpty(input.Timing.End),
	}, nil
}

package producers

import (
	"context"
	"strings"

	"campaign-enricher/internal/models"
)

type DemographicsReport struct {
	MarketSize    MarketSize             `json:"marketSize"`
	Income        IncomeProfile          `json:"income"`
	Relationships Relationships          `json:"relationships"`
	AgeGroups     map[string]interface{} `json:"ageGroups"`
}

type MarketSize struct {
	TotalPopulation  int           `json:"totalPopulation"`
	TargetPopulation string        `json:"targetPopulation"`
	GrowthRate       string        `json:"growthRate"`
	HouseholdData    HouseholdData `json:"householdData"`
}

type HouseholdData struct {
	AvgSize string `json:"avgSize"`
	Income  string `json:"income"`
}

type IncomeProfile struct {
	Median   string            `json:"median"`
	Brackets map[string]string `json:"brackets"`
}

type Relationships struct {
	Coupled bool `json:"coupled"`
	Single  bool `json:"single"`
}

type MediaPreferences struct {
	Social  string `json:"social"`
	Search  string `json:"search"`
	Display string `json:"display"`
}

// Demographics sizes the audience from the campaign goals and targeting.
type Demographics struct{}

func NewDemographics() *Demographics {
	return &Demographics{}
}

func (d *Demographics) Name() string {
	return NameDemographics
}

func (d *Demographics) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	brackets := map[string]string{}
	if input.Target.Income != "" {
		brackets[input.Target.Income] = input.Target.Type
	}

	ageGroups := map[string]interface{}{
		"mediaPreferences": preferredMedia(input.Platforms.Preferred),
	}
	if input.Target.Age != "" {
		ageGroups[input.Target.Age] = input.Target.Gender
	}

	target := strings.Join(nonEmpty(input.Target.Gender, input.Target.Age, input.Location), " ")
	audienceType := strings.ToLower(input.Target.Type)
	coupled := strings.Contains(audienceType, "relationship") || strings.Contains(audienceType, "famil")

	return DemographicsReport{
		MarketSize: MarketSize{
			TotalPopulation:  input.Metrics.Goals.StoreVisits,
			TargetPopulation: target,
			HouseholdData:    HouseholdData{Income: input.Target.Income},
		},
		Income: IncomeProfile{
			Median:   input.Target.Income,
			Brackets: brackets,
		},
		Relationships: Relationships{
			Coupled: coupled,
			Single:  strings.Contains(audienceType, "single"),
		},
		AgeGroups: ageGroups,
	}, nil
}

// preferredMedia ranks the three media classes by the platforms in use.
func preferredMedia(platforms []string) MediaPreferences {
	prefs := MediaPreferences{Social: "low", Search: "low", Display: "low"}
	for _, p := range platforms {
		switch strings.ToLower(p) {
		case "meta", "facebook", "instagram", "tiktok", "social":
			prefs.Social = "high"
		case "google", "search", "bing":
			prefs.Search = "high"
		case "display", "youtube", "programmatic":
			prefs.Display = "high"
		}
	}
	return prefs
}

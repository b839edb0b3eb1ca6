// Package campaign merges the parsed report and the normalized survey into the
// CampaignInput consumed by the enrichment producers.
package campaign

import (
	"strings"

	"campaign-enricher/internal/models"
)

// DefaultIndustry is used when the report does not confirm an industry.
const DefaultIndustry = "retail"

// Compose builds the CampaignInput. It performs no I/O and returns equal
// values for equal arguments.
func Compose(parsed models.ParsedReport, survey models.NormalizedSurvey) models.CampaignInput {
	gender, age := splitTarget(parsed.Confirmed("target"))

	industry := parsed.Confirmed("industry")
	if industry == "" {
		industry = DefaultIndustry
	}

	input := models.CampaignInput{
		Location: parsed.Confirmed("location"),
		Target: models.Audience{
			Age:    age,
			Gender: gender,
			Income: survey.Targeting.Income,
			Type:   survey.Targeting.Type,
		},
		Timing: models.Timing{
			Start: survey.Historical.PeakDates.Start,
			End:   survey.Historical.PeakDates.End,
		},
		Product:  parsed.Confirmed("product"),
		Industry: industry,
		Metrics: models.CampaignMetrics{
			CTR:        survey.Historical.Metrics.CTR,
			CPC:        survey.Historical.Metrics.CPC,
			BestFormat: survey.Historical.Metrics.BestFormat,
			Goals:      survey.Goals,
		},
		Platforms: survey.Platforms,
	}
	return input.Clone()
}

// splitTarget reads "gender, age". Segments past the second are ignored.
func splitTarget(target string) (gender, age string) {
	parts := strings.Split(target, ",")
	gender = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		age = strings.TrimSpace(parts[1])
	}
	return gender, age
}

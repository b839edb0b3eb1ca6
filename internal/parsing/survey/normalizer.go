// Package survey maps the follow-up survey answers, an arbitrarily shaped JSON
// document, onto the fixed NormalizedSurvey schema.
package survey

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"campaign-enricher/internal/models"
)

// Status reports how the survey text was turned into a document.
type Status string

const (
	StatusDecoded  Status = "decoded"
	StatusRepaired Status = "repaired"
	StatusFallback Status = "fallback"
)

// Normalizer converts survey JSON into a NormalizedSurvey. With Repair set, a
// payload that fails strict decoding gets one pass through jsonrepair before
// falling back to defaults.
type Normalizer struct {
	Repair bool
}

// Parse is the strict normalizer: malformed JSON yields the all-defaults survey.
func Parse(text string) models.NormalizedSurvey {
	out, _ := Normalizer{}.Parse(text)
	return out
}

func (n Normalizer) Parse(text string) (models.NormalizedSurvey, Status) {
	root, status := n.decode(text)
	return normalize(doc(root)), status
}

func (n Normalizer) decode(text string) (root map[string]interface{}, status Status) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		root, _ = v.(map[string]interface{})
		return root, StatusDecoded
	}
	if !n.Repair {
		return nil, StatusFallback
	}

	defer func() {
		if r := recover(); r != nil {
			root, status = nil, StatusFallback
		}
	}()

	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, StatusFallback
	}
	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, StatusFallback
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, StatusFallback
	}
	root, ok := v.(map[string]interface{})
	if !ok {
		return nil, StatusFallback
	}
	return root, StatusRepaired
}

func normalize(d doc) models.NormalizedSurvey {
	out := models.NewNormalizedSurvey()

	out.Objectives.Growth = d.integer("objectives", "growth_target")
	out.Objectives.Channels = d.list("objectives", "channels")

	out.Competition.Count = d.integer("competition", "number_of_competitors")
	out.Competition.Type = d.str("competition", "competitor_type")
	out.Competition.Platforms = d.list("competition", "competitor_channels")

	out.Platforms.Preferred = append(d.list("platforms", "primary_channels"), d.list("platforms", "secondary_channels")...)
	out.Platforms.Budget.MetaGoogle = d.integer("platforms", "budget_split", "meta_google")
	out.Platforms.Budget.Radio = d.integer("platforms", "budget_split", "radio")

	out.Historical.PeakDates = SplitPeakPeriod(d.str("historical", "peak_period"))
	out.Historical.AvgOrder = d.float("historical", "average_order_value")
	out.Historical.Metrics.CTR = d.float("historical", "facebook_metrics", "ctr")
	out.Historical.Metrics.CPC = d.float("historical", "facebook_metrics", "cpc")
	out.Historical.Metrics.BestFormat = d.str("historical", "facebook_metrics", "best_format")

	out.Targeting.Income = d.str("targeting", "household_income")
	out.Targeting.Type = d.str("targeting", "customer_type")

	out.Assets.Existing = d.list("assets", "available")
	out.Assets.Needed = d.list("assets", "needed")
	out.Assets.Budget = d.float("assets", "video_budget")

	out.Goals.StoreVisits = d.integer("goals", "store_visits")
	out.Goals.TotalSales = d.float("goals", "total_sales")
	out.Goals.Split.InStore = d.integer("goals", "sales_split", "in_store")
	out.Goals.Split.Online = d.integer("goals", "sales_split", "online")

	return out
}

// SplitPeakPeriod splits "start-end". Without a hyphen only Full is set.
// A spaced " - " separator wins over a bare hyphen so that ranges of ISO
// dates split in the middle.
func SplitPeakPeriod(period string) models.PeakDates {
	dates := models.PeakDates{Full: period}
	sep := "-"
	if strings.Contains(period, " - ") {
		sep = " - "
	}
	parts := strings.Split(period, sep)
	if len(parts) < 2 {
		return dates
	}
	dates.Start = strings.TrimSpace(parts[0])
	dates.End = strings.TrimSpace(parts[1])
	return dates
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.Index(text, "\n"); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

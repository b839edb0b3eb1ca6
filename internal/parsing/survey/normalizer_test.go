package survey

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-enricher/internal/models"
)

const fullSurvey = `{
  "objectives": {"growth_target": "25%", "channels": ["meta", "radio"]},
  "competition": {"number_of_competitors": 4, "competitor_type": "regional", "competitor_channels": ["google"]},
  "platforms": {
    "primary_channels": ["meta", "google"],
    "secondary_channels": ["radio"],
    "budget_split": {"meta_google": "70", "radio": 30}
  },
  "historical": {
    "peak_period": "June-August",
    "average_order_value": 85.5,
    "facebook_metrics": {"ctr": "1.8%", "cpc": 0.75, "best_format": "carousel"}
  },
  "targeting": {"household_income": "75k-100k", "customer_type": "families in a relationship"},
  "assets": {"available": ["logo", "photos"], "needed": ["video"], "video_budget": 2500},
  "goals": {"store_visits": 1200, "total_sales": 50000, "sales_split": {"in_store": "60", "online": "40"}}
}`

var topLevelKeys = []string{"objectives", "competition", "platforms", "historical", "targeting", "assets", "goals"}

func assertFullyKeyed(t *testing.T, s models.NormalizedSurvey) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range topLevelKeys {
		assert.Contains(t, decoded, key)
	}

	assert.NotNil(t, s.Objectives.Channels)
	assert.NotNil(t, s.Competition.Platforms)
	assert.NotNil(t, s.Platforms.Preferred)
	assert.NotNil(t, s.Assets.Existing)
	assert.NotNil(t, s.Assets.Needed)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestParse_FullSurvey(t *testing.T) {
	s := Parse(fullSurvey)

	assert.Equal(t, 25, s.Objectives.Growth)
	assert.Equal(t, []string{"meta", "radio"}, s.Objectives.Channels)
	assert.Equal(t, 4, s.Competition.Count)
	assert.Equal(t, "regional", s.Competition.Type)
	assert.Equal(t, []string{"google"}, s.Competition.Platforms)
	assert.Equal(t, []string{"meta", "google", "radio"}, s.Platforms.Preferred)
	assert.Equal(t, models.BudgetSplit{MetaGoogle: 70, Radio: 30}, s.Platforms.Budget)
	assert.Equal(t, models.PeakDates{Full: "June-August", Start: "June", End: "August"}, s.Historical.PeakDates)
	assert.Equal(t, 85.5, s.Historical.AvgOrder)
	assert.Equal(t, models.AdMetrics{CTR: 1.8, CPC: 0.75, BestFormat: "carousel"}, s.Historical.Metrics)
	assert.Equal(t, models.Targeting{Income: "75k-100k", Type: "families in a relationship"}, s.Targeting)
	assert.Equal(t, []string{"logo", "photos"}, s.Assets.Existing)
	assert.Equal(t, []string{"video"}, s.Assets.Needed)
	assert.Equal(t, 2500.0, s.Assets.Budget)
	assert.Equal(t, 1200, s.Goals.StoreVisits)
	assert.Equal(t, 50000.0, s.Goals.TotalSales)
	assert.Equal(t, models.SalesSplit{InStore: 60, Online: 40}, s.Goals.Split)
}

func TestParse_NeverFails(t *testing.T) {
	inputs := []string{"", "{", "null", "[]", "42", `"text"`, "{]", `{"objectives": null}`, `{"goals": "lots"}`}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var s models.NormalizedSurvey
			assert.NotPanics(t, func() { s = Parse(input) })
			assertFullyKeyed(t, s)
			assert.Equal(t, models.NewNormalizedSurvey(), s)
		})
	}
}

func TestParse_PartialInputMatchesDefaultsShape(t *testing.T) {
	s := Parse(`{"targeting": {"customer_type": "students"}}`)

	want := models.NewNormalizedSurvey()
	want.Targeting.Type = "students"
	assert.Equal(t, want, s)
}

func TestParse_PeakDates(t *testing.T) {
	tests := []struct {
		name string
		json string
		want models.PeakDates
	}{
		{"hyphenated", `{"historical":{"peak_period":"June-August"}}`, models.PeakDates{Full: "June-August", Start: "June", End: "August"}},
		{"no hyphen", `{"historical":{"peak_period":"June"}}`, models.PeakDates{Full: "June"}},
		{"spaced", `{"historical":{"peak_period":"June - August"}}`, models.PeakDates{Full: "June - August", Start: "June", End: "August"}},
		{"iso range", `{"historical":{"peak_period":"2024-06-01 - 2024-08-31"}}`, models.PeakDates{Full: "2024-06-01 - 2024-08-31", Start: "2024-06-01", End: "2024-08-31"}},
		{"absent", `{"historical":{}}`, models.PeakDates{}},
		{"wrong type", `{"historical":{"peak_period":{"from":"June"}}}`, models.PeakDates{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.json).Historical.PeakDates)
		})
	}
}

func TestParse_WrongTypedLeaves(t *testing.T) {
	s := Parse(`{
	  "objectives": {"growth_target": "lots", "channels": "meta"},
	  "competition": {"number_of_competitors": true, "competitor_channels": [null, "tv", {"x": 1}]},
	  "historical": {"facebook_metrics": {"ctr": "n/a", "cpc": "$1.20"}},
	  "targeting": {"household_income": 85000},
	  "goals": {"store_visits": 12.9, "sales_split": {"in_store": [1]}}
	}`)

	assert.Equal(t, 0, s.Objectives.Growth)
	assert.Equal(t, []string{"meta"}, s.Objectives.Channels)
	assert.Equal(t, 0, s.Competition.Count)
	assert.Equal(t, []string{"tv"}, s.Competition.Platforms)
	assert.Equal(t, 0.0, s.Historical.Metrics.CTR)
	assert.Equal(t, 0.0, s.Historical.Metrics.CPC)
	assert.Equal(t, "85000", s.Targeting.Income)
	assert.Equal(t, 12, s.Goals.StoreVisits)
	assert.Equal(t, 0, s.Goals.Split.InStore)
}

func TestParse_RandomGarbage(t *testing.T) {
	faker := gofakeit.New(42)
	n := Normalizer{Repair: true}

	for i := 0; i < 200; i++ {
		input := faker.Sentence(faker.Number(1, 12))
		if i%2 == 0 {
			input = "{" + input
		}
		assert.NotPanics(t, func() {
			s, _ := n.Parse(input)
			assertFullyKeyed(t, s)
		})
	}
}

// ==========================
// Repair Tests
// ==========================

func TestNormalizer_Repair(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantStatus Status
		wantIncome string
	}{
		{"valid json", `{"targeting":{"household_income":"high"}}`, StatusDecoded, "high"},
		{"trailing comma", `{"targeting":{"household_income":"high",},}`, StatusRepaired, "high"},
		{"code fence", "```json\n{\"targeting\":{\"household_income\":\"high\"}}\n```", StatusRepaired, "high"},
		{"empty", "", StatusFallback, ""},
	}

	n := Normalizer{Repair: true}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, status := n.Parse(tt.input)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantIncome, s.Targeting.Income)
			assertFullyKeyed(t, s)
		})
	}
}

func TestNormalizer_StrictSkipsRepair(t *testing.T) {
	s, status := Normalizer{}.Parse(`{"targeting":{"household_income":"high",},}`)

	assert.Equal(t, StatusFallback, status)
	assert.Equal(t, "", s.Targeting.Income)
}

// ==========================
// Unit Tests
// ==========================

func TestToInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
	}{
		{nil, 0},
		{"42", 42},
		{" 15% ", 15},
		{"-3 units", -3},
		{"abc", 0},
		{"", 0},
		{12.7, 12},
		{float64(7), 7},
		{true, 0},
		{map[string]interface{}{}, 0},
		{1e20, 0},
		{-1e20, 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
		{float64(1 << 63), 0},
		{-12.7, -12},
		{uint64(math.MaxUint64), 0},
		{"99999999999999999999", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toInt(tt.in), "input %#v", tt.in)
	}
}

func TestParse_OutOfRangeCounts(t *testing.T) {
	s := Parse(`{"goals": {"store_visits": 1e20, "total_sales": -1e300, "sales_split": {"in_store": "99999999999999999999"}}}`)

	assert.Equal(t, 0, s.Goals.StoreVisits)
	assert.Equal(t, 0, s.Goals.Split.InStore)
	assertFullyKeyed(t, s)
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{nil, 0},
		{"1.8%", 1.8},
		{".5", 0.5},
		{"2e2", 200},
		{"n/a", 0},
		{3.25, 3.25},
		{false, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toFloat(tt.in), "input %#v", tt.in)
	}
}

func TestSplitPeakPeriod(t *testing.T) {
	assert.Equal(t, models.PeakDates{}, SplitPeakPeriod(""))
	assert.Equal(t, models.PeakDates{Full: "-", Start: "", End: ""}, SplitPeakPeriod("-"))
	assert.Equal(t, models.PeakDates{Full: "Nov-Dec-Jan", Start: "Nov", End: "Dec"}, SplitPeakPeriod("Nov-Dec-Jan"))
}

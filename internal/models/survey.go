// internal/models/survey.go
package models

// NormalizedSurvey is the fixed-shape view of the follow-up survey answers.
// Every leaf carries a default so the structure is total.
type NormalizedSurvey struct {
	Objectives  Objectives  `json:"objectives"`
	Competition Competition `json:"competition"`
	Platforms   Platforms   `json:"platforms"`
	Historical  Historical  `json:"historical"`
	Targeting   Targeting   `json:"targeting"`
	Assets      Assets      `json:"assets"`
	Goals       Goals       `json:"goals"`
}

type Objectives struct {
	Growth   int      `json:"growth"`
	Channels []string `json:"channels"`
}

type Competition struct {
	Count     int      `json:"count"`
	Type      string   `json:"type"`
	Platforms []string `json:"platforms"`
}

type Platforms struct {
	Preferred []string    `json:"preferred"`
	Budget    BudgetSplit `json:"budget"`
}

type BudgetSplit struct {
	MetaGoogle int `json:"meta_google"`
	Radio      int `json:"radio"`
}

type Historical struct {
	PeakDates PeakDates `json:"peakDates"`
	AvgOrder  float64   `json:"avgOrder"`
	Metrics   AdMetrics `json:"metrics"`
}

type PeakDates struct {
	Full  string `json:"full"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type AdMetrics struct {
	CTR        float64 `json:"ctr"`
	CPC        float64 `json:"cpc"`
	BestFormat string  `json:"bestFormat"`
}

type Targeting struct {
	Income string `json:"income"`
	Type   string `json:"type"`
}

type Assets struct {
	Existing []string `json:"existing"`
	Needed   []string `json:"needed"`
	Budget   float64  `json:"budget"`
}

type Goals struct {
	StoreVisits int        `json:"storeVisits"`
	TotalSales  float64    `json:"totalSales"`
	Split       SalesSplit `json:"split"`
}

type SalesSplit struct {
	InStore int `json:"inStore"`
	Online  int `json:"online"`
}

// NewNormalizedSurvey returns the all-defaults survey.
func NewNormalizedSurvey() NormalizedSurvey {
	return NormalizedSurvey{
		Objectives:  Objectives{Channels: []string{}},
		Competition: Competition{Platforms: []string{}},
		Platforms:   Platforms{Preferred: []string{}},
		Assets:      Assets{Existing: []string{}, Needed: []string{}},
	}
}

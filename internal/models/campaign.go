// internal/models/campaign.go
package models

// CampaignInput is the canonical record every enrichment producer receives.
type CampaignInput struct {
	Location  string          `json:"location"`
	Target    Audience        `json:"target"`
	Timing    Timing          `json:"timing"`
	Product   string          `json:"product"`
	Industry  string          `json:"industry"`
	Metrics   CampaignMetrics `json:"metrics"`
	Platforms Platforms       `json:"platforms"`
}

type Audience struct {
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Income string `json:"income"`
	Type   string `json:"type"`
}

type Timing struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CampaignMetrics struct {
	CTR        float64 `json:"ctr"`
	CPC        float64 `json:"cpc"`
	BestFormat string  `json:"bestFormat"`
	Goals      Goals   `json:"goals"`
}

// Clone returns a deep copy. Producers get their own copy so a misbehaving
// producer cannot change what the next one sees.
func (c CampaignInput) Clone() CampaignInput {
	out := c
	out.Platforms.Preferred = append([]string(nil), c.Platforms.Preferred...)
	if out.Platforms.Preferred == nil {
		out.Platforms.Preferred = []string{}
	}
	return out
}

// PrefersPlatform reports whether name is among the preferred platforms.
func (c CampaignInput) PrefersPlatform(name string) bool {
	for _, p := range c.Platforms.Preferred {
		if p == name {
			return true
		}
	}
	return false
}

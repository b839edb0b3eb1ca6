// Package producers implements the enrichment lookups run by the
// orchestrator. Every producer derives a baseline from the CampaignInput;
// some also consult a backing store when one is configured.
package producers

import (
	"strings"
)

// Producer names, used as metric labels and log fields.
const (
	NameDemographics = "demographics"
	NameSearchTrends = "search-trends"
	NameSocialMedia  = "social-media"
	NameWeather      = "weather"
	NameAdPlatform   = "ad-platform"
	NameCalendar     = "calendar"
)

// Logger interface definition
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// nonEmpty returns the non-blank values in order, never nil.
func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// appendUnique appends the values of extra not already in base, case-insensitively.
func appendUnique(base []string, extra ...string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	for _, v := range base {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range extra {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		base = append(base, v)
	}
	return base
}

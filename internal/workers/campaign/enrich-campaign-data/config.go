// internal/workers/campaign/enrich-campaign-data/config.go
package enrichcampaigndata

import "time"

type Config struct {
	Timeout        time.Duration
	NotifyTimeout  time.Duration
	ValidateOutput bool
	OutputSchema   map[string]interface{}
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		NotifyTimeout:  5 * time.Second,
		ValidateOutput: true,
	}
}

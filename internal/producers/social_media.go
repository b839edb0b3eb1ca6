package producers

import (
	"context"
	"strings"

	"campaign-enricher/internal/models"
)

type SocialMediaStats struct {
	Meta      MetaStats      `json:"meta"`
	Instagram InstagramStats `json:"instagram"`
}

type MetaStats struct {
	AudienceSize int      `json:"audienceSize"`
	Interests    []string `json:"interests"`
	PeakHours    []string `json:"peakHours"`
}

type InstagramStats struct {
	Hashtags       []string `json:"hashtags"`
	EngagementRate float64  `json:"engagementRate"`
}

// defaultPeakHours are posted when meta is a preferred platform.
var defaultPeakHours = []string{"12:00", "19:00", "21:00"}

// SocialMedia estimates the meta and instagram reach of the campaign.
type SocialMedia struct{}

func NewSocialMedia() *SocialMedia {
	return &SocialMedia{}
}

func (s *SocialMedia) Name() string {
	return NameSocialMedia
}

func (s *SocialMedia) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peakHours := []string{}
	if input.PrefersPlatform("meta") {
		peakHours = append(peakHours, defaultPeakHours...)
	}

	return SocialMediaStats{
		Meta: MetaStats{
			AudienceSize: input.Metrics.Goals.StoreVisits,
			Interests:    nonEmpty(input.Target.Type, input.Industry),
			PeakHours:    peakHours,
		},
		Instagram: InstagramStats{
			Hashtags:       hashtags(input.Product, input.Location),
			EngagementRate: input.Metrics.CTR,
		},
	}, nil
}

func hashtags(values ...string) []string {
	out := []string{}
	for _, v := range nonEmpty(values...) {
		tag := strings.Map(func(r rune) rune {
			if r == ' ' || r == ',' || r == '#' {
				return -1
			}
			return r
		}, strings.ToLower(v))
		if tag != "" {
			out = append(out, "#"+tag)
		}
	}
	return out
}

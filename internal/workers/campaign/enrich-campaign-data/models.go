// internal/workers/campaign/enrich-campaign-data/models.go
package enrichcampaigndata

// Input is one enrichment request. Body, when present, is a JSON-encoded
// object of the form {"context": {...}}; otherwise Context carries the agent
// context directly, as Zeebe variables do.
type Input struct {
	Body      *string                `json:"body,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`

	Source string `json:"-"`
}

type Output struct {
	StatusCode int         `json:"statusCode"`
	Response   interface{} `json:"response"`
	RequestID  string      `json:"requestId"`
}

// Agent context keys
const (
	KeyReport   = "ai_parse_user_input_"
	KeyFollowUp = "parsed_follow_up_user_input"
)

// Request sources
const (
	SourceZeebe = "zeebe"
	SourceHTTP  = "http"
	SourceEvent = "event"
	SourceCLI   = "cli"
)

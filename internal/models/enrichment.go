// internal/models/enrichment.go
package models

// EnrichmentResult is the assembled output of one orchestration run.
// All four keys are always present, possibly holding a fallback value.
type EnrichmentResult struct {
	Demographics interface{}   `json:"demographics"`
	Trends       []interface{} `json:"trends"`
	Benchmarks   interface{}   `json:"benchmarks"`
	Events       interface{}   `json:"events"`
}

// EnrichmentResponse is the success body returned to callers.
type EnrichmentResponse struct {
	EnrichedData  EnrichmentResult `json:"enriched_data"`
	InitialParse  ParsedReport     `json:"initialParse"`
	FollowUpParse NormalizedSurvey `json:"followUpParse"`
	Message       string           `json:"message"`
}

// ErrorResponse is the failure body returned when the request itself is unusable.
type ErrorResponse struct {
	Error        string                 `json:"error"`
	ParsedInput  map[string]interface{} `json:"parsed_input"`
	EnrichedData map[string]interface{} `json:"enriched_data"`
}

const EnrichmentCompleteMessage = "Data enrichment complete"

// NewErrorResponse builds the failure body with empty placeholders.
func NewErrorResponse(message string) ErrorResponse {
	if message == "" {
		message = "Internal server error"
	}
	return ErrorResponse{
		Error:        message,
		ParsedInput:  map[string]interface{}{},
		EnrichedData: map[string]interface{}{},
	}
}

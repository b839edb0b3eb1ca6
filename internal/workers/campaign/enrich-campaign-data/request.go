// internal/workers/campaign/enrich-campaign-data/request.go
package enrichcampaigndata

import (
	"encoding/json"
	"fmt"
)

// decodeRequest extracts the report text and survey JSON from input. Only an
// unusable body is an error; missing or mistyped context fields read as empty.
func decodeRequest(input *Input) (reportText, surveyJSON string, err error) {
	agentContext := map[string]interface{}{}

	switch {
	case input.Body != nil && *input.Body != "":
		var body interface{}
		if err := json.Unmarshal([]byte(*input.Body), &body); err != nil {
			return "", "", fmt.Errorf("decode request body: %w", err)
		}
		obj, ok := body.(map[string]interface{})
		if !ok {
			return "", "", fmt.Errorf("request body must be a JSON object, got %s", kind(body))
		}
		if c, ok := obj["context"].(map[string]interface{}); ok {
			agentContext = c
		}
	case input.Context != nil:
		agentContext = input.Context
	}

	reportText, _ = agentContext[KeyReport].(string)
	surveyJSON = followUpText(agentContext[KeyFollowUp])
	return reportText, surveyJSON, nil
}

// followUpText returns the survey as JSON text. Values that arrive already
// decoded are encoded again so the normalizer sees one format.
func followUpText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func kind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

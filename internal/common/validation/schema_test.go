package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"enriched_data", "message"},
		"properties": map[string]interface{}{
			"message": map[string]interface{}{"type": "string"},
			"enriched_data": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"trends"},
				"properties": map[string]interface{}{
					"trends": map[string]interface{}{"type": "array"},
				},
			},
		},
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       interface{}
		valid     bool
		errorPath string
	}{
		{
			name: "valid map",
			doc: map[string]interface{}{
				"message":       "Data enrichment complete",
				"enriched_data": map[string]interface{}{"trends": []interface{}{}},
			},
			valid: true,
		},
		{
			name: "valid struct",
			doc: struct {
				Message  string `json:"message"`
				Enriched struct {
					Trends []string `json:"trends"`
				} `json:"enriched_data"`
			}{Message: "ok"},
			valid:     false,
			errorPath: "enriched_data.trends",
		},
		{
			name:      "missing message",
			doc:       map[string]interface{}{"enriched_data": map[string]interface{}{"trends": []interface{}{}}},
			valid:     false,
			errorPath: "(root)",
		},
		{
			name: "wrong type",
			doc: map[string]interface{}{
				"message":       "x",
				"enriched_data": map[string]interface{}{"trends": "none"},
			},
			valid:     false,
			errorPath: "enriched_data.trends",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateDocument(responseSchema(), tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.True(t, result.HasErrors(tt.errorPath), result.GetErrorMessages())
			}
		})
	}
}

func TestGetErrorsForField(t *testing.T) {
	result, err := ValidateDocument(responseSchema(), map[string]interface{}{
		"message":       "x",
		"enriched_data": map[string]interface{}{"trends": 7},
	})
	require.NoError(t, err)

	fieldErrors := result.GetErrorsForField("enriched_data")
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "INVALID_TYPE", fieldErrors[0].Code)
	assert.Empty(t, result.GetErrorsForField("message"))
}

func TestValidateDocument_EmptySchema(t *testing.T) {
	result, err := ValidateDocument(nil, "anything")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("campaign.data.enrich"))
	assert.Error(t, ValidateActivityNaming("enrich-campaign-data"))
	assert.Error(t, ValidateActivityNaming("campaign.enrich"))
}

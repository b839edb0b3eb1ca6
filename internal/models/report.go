// internal/models/report.go
package models

// ParsedReport is the structured view of the free-text report produced upstream.
type ParsedReport struct {
	Display string     `json:"display"`
	Data    ReportData `json:"data"`
}

type ReportData struct {
	Confirmed map[string]string `json:"confirmed"`
	Missing   []string          `json:"missing"`
	Questions []string          `json:"questions"`
}

// NewParsedReport returns a report with every container allocated so that
// absent sections serialize as {} and [] rather than null.
func NewParsedReport(display string) ParsedReport {
	return ParsedReport{
		Display: display,
		Data: ReportData{
			Confirmed: map[string]string{},
			Missing:   []string{},
			Questions: []string{},
		},
	}
}

// Confirmed returns the confirmed value for key, or "" when absent.
func (r ParsedReport) Confirmed(key string) string {
	if r.Data.Confirmed == nil {
		return ""
	}
	return r.Data.Confirmed[key]
}

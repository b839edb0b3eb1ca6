// cmd/campaign-enricher/enrich.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaign-enricher/internal/app"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

var (
	enrichReport string
	enrichSurvey string
	enrichEvent  string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run one enrichment over local files and print the response",
	Example: `  campaign-enricher enrich --report report.md --survey survey.json
  campaign-enricher enrich --event event.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := buildInput()
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closeApp(a)

		output, _ := a.Handler.Execute(cmd.Context(), input)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return err
		}
		if output.StatusCode != 200 {
			return fmt.Errorf("enrichment failed with status %d", output.StatusCode)
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichReport, "report", "", "file holding the report text")
	enrichCmd.Flags().StringVar(&enrichSurvey, "survey", "", "file holding the follow-up survey JSON")
	enrichCmd.Flags().StringVar(&enrichEvent, "event", "", "file holding a full {\"body\": \"...\"} event")
	enrichCmd.MarkFlagsMutuallyExclusive("event", "report")
	enrichCmd.MarkFlagsMutuallyExclusive("event", "survey")
}

func buildInput() (*ecd.Input, error) {
	if enrichEvent != "" {
		data, err := os.ReadFile(enrichEvent)
		if err != nil {
			return nil, err
		}
		var input ecd.Input
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("parse event %s: %w", enrichEvent, err)
		}
		input.Source = ecd.SourceCLI
		return &input, nil
	}

	agentContext := map[string]interface{}{}
	if enrichReport != "" {
		data, err := os.ReadFile(enrichReport)
		if err != nil {
			return nil, err
		}
		agentContext[ecd.KeyReport] = string(data)
	}
	if enrichSurvey != "" {
		data, err := os.ReadFile(enrichSurvey)
		if err != nil {
			return nil, err
		}
		agentContext[ecd.KeyFollowUp] = string(data)
	}
	return &ecd.Input{Context: agentContext, Source: ecd.SourceCLI}, nil
}

// cmd/campaign-enricher/registry.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaign-enricher/internal/common/validation"
	"campaign-enricher/pkg/registry"
)

var registryFile string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the activity registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(registryPath())
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		if len(reg.Activities) == 0 {
			return fmt.Errorf("registry contains no activities")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show <taskType>",
	Short: "Print one activity definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(registryPath())
		if err != nil {
			return err
		}
		activity, ok := reg.Find(args[0])
		if !ok {
			return fmt.Errorf("no activity registered for task type %q", args[0])
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(activity)
	},
}

var registryCheckCmd = &cobra.Command{
	Use:   "check <taskType> <output.json>",
	Short: "Validate a saved worker output against the activity's output schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(registryPath())
		if err != nil {
			return err
		}
		activity, ok := reg.Find(args[0])
		if !ok {
			return fmt.Errorf("no activity registered for task type %q", args[0])
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", args[1], err)
		}

		result, err := validation.ValidateDocument(activity.OutputSchema, doc)
		if err != nil {
			return err
		}
		if !result.Valid {
			for _, msg := range result.GetErrorMessages() {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return fmt.Errorf("%s does not match the %s output schema", args[1], activity.ID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s matches the %s output schema.\n", args[1], activity.ID)
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryFile, "path", "", "registry file (default: compiled-in registry, or enrichment.registry_path)")
	registryCmd.AddCommand(registryValidateCmd, registryShowCmd, registryCheckCmd)
}

// registryPath prefers the flag over the configured path.
func registryPath() string {
	if registryFile != "" {
		return registryFile
	}
	if cfg != nil {
		return cfg.Enrichment.RegistryPath
	}
	return ""
}

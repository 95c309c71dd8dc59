package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/aegis/pkg/cli"
	"mercator-hq/aegis/pkg/prompts"
)

var promptsFlags struct {
	status string
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect the prompt registry",
	Long: `Inspect the prompt registry built from the configured catalog file, or from
the builtin catalog when prompts.catalog_path is empty.`,
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered prompts",
	Long: `List registered prompts sorted by id.

Examples:
  aegis prompts list
  aegis prompts list --status active --format csv`,
	Args: cobra.NoArgs,
	RunE: listPrompts,
}

var promptsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a prompt by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPrompt(cmd, func(r *prompts.Registry) (prompts.Spec, error) {
			return r.Get(args[0])
		})
	},
}

var promptsActiveCmd = &cobra.Command{
	Use:   "active <intent>",
	Short: "Show the prompt serving an intent",
	Long: `Show the highest-version active prompt for a feature intent.

Prompts in draft, shadow, canary or retired status are never selected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showPrompt(cmd, func(r *prompts.Registry) (prompts.Spec, error) {
			return r.Active(args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.AddCommand(promptsListCmd, promptsGetCmd, promptsActiveCmd)

	promptsListCmd.Flags().StringVar(&promptsFlags.status, "status", "", "only list prompts in this rollout status")
}

func loadRegistry() (*prompts.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return prompts.Load(&cfg.Prompts)
}

func listPrompts(cmd *cobra.Command, args []string) error {
	status := prompts.RolloutStatus(promptsFlags.status)
	if status != "" && !status.Valid() {
		return fmt.Errorf("invalid rollout status %q", promptsFlags.status)
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	table := &cli.Table{Headers: []string{"ID", "INTENT", "VERSION", "STATUS", "SCHEMA REF"}}
	for _, s := range registry.List() {
		if status != "" && s.RolloutStatus != status {
			continue
		}
		table.Append(s.ID, s.Intent(), s.Version, string(s.RolloutStatus), s.OutputSchemaRef)
	}

	return formatter().FormatTo(cmd.OutOrStdout(), table)
}

// showPrompt prints one spec. Text output uses the catalog file layout so
// that it can be pasted into a catalog.
func showPrompt(cmd *cobra.Command, find func(*prompts.Registry) (prompts.Spec, error)) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	spec, err := find(registry)
	if err != nil {
		return err
	}

	format, _ := cli.ParseFormat(outputFormat)
	if format == cli.FormatText {
		data, err := prompts.Marshal([]prompts.Spec{spec})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	table := &cli.Table{Headers: []string{"ID", "INTENT", "VERSION", "STATUS", "SCHEMA REF"}}
	table.Append(spec.ID, spec.Intent(), spec.Version, string(spec.RolloutStatus), spec.OutputSchemaRef)
	if format == cli.FormatCSV {
		return formatter().FormatTo(cmd.OutOrStdout(), table)
	}
	return formatter().FormatTo(cmd.OutOrStdout(), spec)
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/aegis/pkg/cli"
	"mercator-hq/aegis/pkg/schemas"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas [ref]",
	Short: "List output schemas or print one",
	Long: `List the output schemas that prompts may reference, or print the JSON Schema
registered under ref.

Examples:
  aegis schemas
  aegis schemas listing-autofill@1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchemas,
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}

func runSchemas(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		table := &cli.Table{Headers: []string{"REF", "DESCRIPTION"}}
		for _, ref := range schemas.Refs() {
			entry, _ := schemas.Lookup(ref)
			table.Append(ref, entry.Description)
		}
		return formatter().FormatTo(cmd.OutOrStdout(), table)
	}

	entry, ok := schemas.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown schema %q", args[0])
	}

	// A schema is JSON whatever the --format flag says.
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entry.Schema)
}

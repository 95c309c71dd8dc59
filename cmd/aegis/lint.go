package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"mercator-hq/aegis/pkg/cli"
	"mercator-hq/aegis/pkg/prompts"
	"mercator-hq/aegis/pkg/schemas"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate prompt catalog files",
	Long: `Validate YAML prompt catalogs before they are deployed.

The lint command performs the same checks as registry construction:
  - YAML syntax and unknown fields
  - Required fields, id/version agreement and rollout status
  - Duplicate ids
  - Active entries of one intent with equal versions

It also warns about:
  - Output schema references that are not registered
  - Intents without any active prompt

Examples:
  # Lint single file
  aegis lint --file prompts.yaml

  # Lint directory
  aegis lint --dir catalogs/

  # Strict mode (warnings as errors)
  aegis lint --file prompts.yaml --strict

  # JSON output for CI/CD
  aegis lint --file prompts.yaml --format json`,
	RunE: lintCatalogs,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of catalog files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
}

// LintResult represents the validation result for a single catalog file.
type LintResult struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Prompts  int         `json:"prompts"`
	Errors   []LintIssue `json:"errors,omitempty"`
	Warnings []LintIssue `json:"warnings,omitempty"`
}

// LintIssue represents a single validation error or warning.
type LintIssue struct {
	PromptID string `json:"prompt_id,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Type     string `json:"type,omitempty"`
}

func lintCatalogs(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list catalog files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no catalog files found")
	}

	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		results = append(results, lintCatalogFile(file))
	}

	format, _ := cli.ParseFormat(outputFormat)
	if format == cli.FormatJSON {
		if err := formatter().FormatTo(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		printLintText(cmd.OutOrStdout(), results)
	}

	return lintOutcome(results, lintFlags.strict)
}

func lintCatalogFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	specs, err := prompts.LoadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintIssue{
			Message:  err.Error(),
			Severity: "error",
			Type:     "syntax",
		})
		return result
	}
	result.Prompts = len(specs)

	if err := prompts.Validate(specs); err != nil {
		result.Valid = false
		for _, e := range splitErrors(err) {
			result.Errors = append(result.Errors, issueFor(e))
		}
	}

	result.Warnings = catalogWarnings(specs)
	return result
}

// splitErrors flattens an errors.Join result.
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func issueFor(err error) LintIssue {
	issue := LintIssue{Message: err.Error(), Severity: "error"}

	var dup *prompts.DuplicateIDError
	var spec *prompts.SpecError
	switch {
	case errors.As(err, &dup):
		issue.PromptID = dup.ID
	case errors.As(err, &spec):
		issue.PromptID = spec.ID
	}

	switch {
	case errors.Is(err, prompts.ErrDuplicateID):
		issue.Type = "duplicate-id"
	case errors.Is(err, prompts.ErrAmbiguousActive):
		issue.Type = "ambiguous-active"
	case errors.Is(err, prompts.ErrInvalidSpec):
		issue.Type = "invalid-spec"
	}
	return issue
}

// catalogWarnings reports problems that do not prevent registry
// construction but would fail at request time.
func catalogWarnings(specs []prompts.Spec) []LintIssue {
	var warnings []LintIssue

	hasActive := make(map[string]bool)
	for _, s := range specs {
		intent := s.Intent()
		if _, seen := hasActive[intent]; !seen {
			hasActive[intent] = false
		}
		if s.RolloutStatus == prompts.StatusActive {
			hasActive[intent] = true
		}

		if s.OutputSchemaRef != "" {
			if _, ok := schemas.Lookup(s.OutputSchemaRef); !ok {
				warnings = append(warnings, LintIssue{
					PromptID: s.ID,
					Message:  fmt.Sprintf("output schema %q is not registered", s.OutputSchemaRef),
					Severity: "warning",
					Type:     "unknown-schema",
				})
			}
		}
	}

	intents := make([]string, 0, len(hasActive))
	for intent := range hasActive {
		intents = append(intents, intent)
	}
	sort.Strings(intents)

	for _, intent := range intents {
		if intent == "" || hasActive[intent] {
			continue
		}
		warnings = append(warnings, LintIssue{
			Message:  fmt.Sprintf("intent %q has no active prompt", intent),
			Severity: "warning",
			Type:     "no-active-prompt",
		})
	}
	return warnings
}

func printLintText(w io.Writer, results []LintResult) {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Fprintf(w, "Validating %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Fprintf(w, "✓ %d prompt(s) valid\n", result.Prompts)
		}

		for _, err := range result.Errors {
			fmt.Fprintf(w, "✗ Error: %s", err.Message)
			if err.Type != "" {
				fmt.Fprintf(w, " [%s]", err.Type)
			}
			fmt.Fprintln(w)
			totalErrors++
		}

		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "⚠  Warning: %s", warn.Message)
			if warn.PromptID != "" {
				fmt.Fprintf(w, " (%s)", warn.PromptID)
			}
			fmt.Fprintln(w)
			totalWarnings++
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)
	if lintFlags.strict && totalWarnings > 0 {
		fmt.Fprintln(w, "  Strict mode enabled: treating warnings as errors")
	}
}

func lintOutcome(results []LintResult, strict bool) error {
	for _, r := range results {
		if len(r.Errors) > 0 || (strict && len(r.Warnings) > 0) {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

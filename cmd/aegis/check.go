package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/aegis/pkg/cli"
	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/guardrail"
	"mercator-hq/aegis/pkg/schemas"
	"mercator-hq/aegis/pkg/telemetry"
	"mercator-hq/aegis/pkg/telemetry/metrics"
)

// checkOptions holds the flags of the check commands.
type checkOptions struct {
	metrics bool

	// input
	user     string
	text     string
	imageURL string

	// output
	schema string
	intent string
	file   string
}

var checkFlags checkOptions

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a guardrail against a single value",
	Long: `Run the input or output guardrail against a single value and print the result.

A rejection is printed like a pass and the command exits with status 2.`,
}

var checkInputCmd = &cobra.Command{
	Use:   "input",
	Short: "Check a user submission before inference",
	Long: `Check a user submission against the input guardrail.

Checks run in order and stop at the first failure: user id, text length,
adversarial prompt patterns, image URL length, image URL safety.

Examples:
  # Text submission
  aegis check input --user u1 --text "Oak desk, pickup only"

  # Image submission, JSON result
  aegis check input --user u1 --image-url https://cdn.example.com/a.jpg --format json`,
	RunE: runCheckInput,
}

var checkOutputCmd = &cobra.Command{
	Use:   "output",
	Short: "Check model output after inference",
	Long: `Check model output against a registered schema, then scan it for PII.

The output is read from --file, or from stdin when --file is "-" or empty.
The schema is named with --schema, or taken from the active prompt of --intent.

Examples:
  aegis check output --schema listing-autofill@1 --file reply.json
  echo '{"reply":"Hi!"}' | aegis check output --intent chat-assistant
  aegis check output --schema chat-reply@1 --file reply.json --metrics`,
	RunE: runCheckOutput,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.AddCommand(checkInputCmd, checkOutputCmd)

	checkCmd.PersistentFlags().BoolVar(&checkFlags.metrics, "metrics", false, "print collected metrics to stderr after the check")

	checkInputCmd.Flags().StringVarP(&checkFlags.user, "user", "u", "", "id of the submitting user")
	checkInputCmd.Flags().StringVarP(&checkFlags.text, "text", "t", "", "text submission")
	checkInputCmd.Flags().StringVar(&checkFlags.imageURL, "image-url", "", "image URL submission")

	checkOutputCmd.Flags().StringVarP(&checkFlags.schema, "schema", "s", "", "output schema reference, e.g. listing-autofill@1")
	checkOutputCmd.Flags().StringVarP(&checkFlags.intent, "intent", "i", "", "feature intent whose active prompt names the schema")
	checkOutputCmd.Flags().StringVarP(&checkFlags.file, "file", "f", "", "file holding the model output (- for stdin)")
}

// CheckResult is the printed outcome of a check.
type CheckResult struct {
	Stage     string `json:"stage"`
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
	SchemaRef string `json:"schema_ref,omitempty"`
	PromptID  string `json:"prompt_id,omitempty"`
	Validated any    `json:"validated,omitempty"`
}

func (r CheckResult) String() string {
	var b strings.Builder
	if r.OK {
		fmt.Fprintf(&b, "✓ %s passed", r.Stage)
	} else {
		fmt.Fprintf(&b, "✗ %s rejected: %s", r.Stage, r.Reason)
	}
	if r.PromptID != "" {
		fmt.Fprintf(&b, "\n  prompt: %s", r.PromptID)
	}
	if r.SchemaRef != "" {
		fmt.Fprintf(&b, "\n  schema: %s", r.SchemaRef)
	}
	return b.String()
}

// checkEnv holds what a check needs beyond the guardrails themselves.
type checkEnv struct {
	cfg       *config.Config
	pipeline  *guardrail.Pipeline
	telemetry *telemetry.Telemetry
}

func newCheckEnv(cmd *cobra.Command) (*checkEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tel, err := newTelemetry(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err.Error())
	}

	pipeline, err := guardrail.NewPipelineFromConfig(cfg,
		guardrail.WithLogger(tel.Logger()),
		guardrail.WithMetrics(tel.Metrics()),
		guardrail.WithTracer(tel.Tracer()),
	)
	if err != nil {
		_ = tel.Shutdown(cmd.Context())
		return nil, err
	}

	return &checkEnv{cfg: cfg, pipeline: pipeline, telemetry: tel}, nil
}

// finish flushes spans, dumps metrics when asked, and prints the result.
func (e *checkEnv) finish(cmd *cobra.Command, result CheckResult) error {
	if err := e.telemetry.Shutdown(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to flush spans: %v\n", err)
	}

	if checkFlags.metrics {
		if err := e.telemetry.Metrics().WriteText(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if err := formatter().FormatTo(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.OK {
		return cli.NewRejectionError(result.Stage, result.Reason)
	}
	return nil
}

func runCheckInput(cmd *cobra.Command, args []string) error {
	env, err := newCheckEnv(cmd)
	if err != nil {
		return err
	}

	res := env.pipeline.CheckInput(cmd.Context(), guardrail.Input{
		UserID:   checkFlags.user,
		Text:     checkFlags.text,
		ImageURL: checkFlags.imageURL,
	})

	return env.finish(cmd, CheckResult{
		Stage:  metrics.StageInput,
		OK:     res.OK,
		Reason: string(res.Reason),
	})
}

func runCheckOutput(cmd *cobra.Command, args []string) error {
	if (checkFlags.schema == "") == (checkFlags.intent == "") {
		return fmt.Errorf("exactly one of --schema or --intent must be specified")
	}

	env, err := newCheckEnv(cmd)
	if err != nil {
		return err
	}

	result := CheckResult{Stage: metrics.StageOutput, SchemaRef: checkFlags.schema}
	if checkFlags.intent != "" {
		spec, err := env.pipeline.Resolve(cmd.Context(), checkFlags.intent)
		if err != nil {
			return err
		}
		result.PromptID = spec.ID
		result.SchemaRef = spec.OutputSchemaRef
	}

	entry, ok := schemas.Lookup(result.SchemaRef)
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", guardrail.ErrUnknownSchema, result.SchemaRef, strings.Join(schemas.Refs(), ", "))
	}

	raw, err := readOutput(cmd.InOrStdin(), checkFlags.file)
	if err != nil {
		return err
	}

	out := guardrail.CheckOutputContext(cmd.Context(), env.pipeline, string(raw), entry.Validator)
	result.OK = out.OK
	result.Reason = string(out.Reason)
	if out.OK {
		result.Validated = *out.Validated
	}

	return env.finish(cmd, result)
}

// readOutput reads the model output from path, or from stdin when path is
// empty or "-".
func readOutput(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model output: %w", err)
	}
	return data, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/aegis/pkg/cli"
	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/telemetry"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - guardrails and prompt governance for model-backed features",
	Long: `Aegis wraps every model call made by a marketplace feature in deterministic
gates and governs which prompt version serves each feature.

  - Input checks: user id, length limits, adversarial prompts, image URL safety
  - Output checks: schema validation, then a structural PII scan
  - Prompt registry: versioned prompts with rollout status per feature intent`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.ParseFormat(outputFormat)
		return err
	},
}

// Execute runs the root command and exits with a status derived from the
// returned error.
func Execute() {
	ctx, stop := cli.SetupSignalHandler()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var rejection *cli.RejectionError
	if err != nil && !errors.As(err, &rejection) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log guardrail decisions at debug level")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "text", "output format: text, json, csv")
}

// loadConfig reads the configuration file, if any, with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// newTelemetry builds the command telemetry. Logs go to w so that they
// never mix with command output on stdout. --verbose forces debug logs and
// --metrics enables the collector regardless of the config file.
func newTelemetry(cfg *config.Config, w io.Writer) (*telemetry.Telemetry, error) {
	tc := cfg.Telemetry
	if verbose {
		tc.Logging.Level = "debug"
	}
	if checkFlags.metrics {
		tc.Metrics.Enabled = true
	}
	return telemetry.New(&tc, w)
}

// formatter returns the formatter selected by --format.
func formatter() cli.Formatter {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		format = cli.FormatText
	}
	return cli.NewFormatter(format)
}

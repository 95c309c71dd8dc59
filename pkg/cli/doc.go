/*
Package cli provides command-line interface utilities for the aegis command.

Output Formatting:

Command results are rendered as text, JSON or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Tabular results implement Tabular so that every format can render them:

	table := &cli.Table{Headers: []string{"ID", "STATUS"}}
	table.Append("listing-autofill.v2", "active")

Exit Codes:

A rejected check is not a failed command. Commands return a RejectionError
so that scripts can tell a rejection (exit 2) from a usage or configuration
problem (exit 1):

	os.Exit(cli.ExitCode(err))

Signal Handling:

For cancellation on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

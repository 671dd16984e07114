// Package cli provides the command-line interface for BillScan.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/internal/cli/commands"
	"github.com/billscan/billscan/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code. Unknown
// subcommands fall through to plugin discovery before cobra reports
// them as errors.
func Execute() int {
	rootCmd := NewRootCommand()

	if cmd, ok := pluginCandidate(rootCmd); ok {
		if pluginPath, err := plugins.FindPlugin(cmd); err == nil {
			return plugins.Execute(pluginPath, os.Args[2:])
		}
		// No plugin binary either; cobra produces the unknown-command
		// error below and we decorate it with install hints.
	}

	if err := rootCmd.Execute(); err != nil {
		if cmd, ok := pluginCandidate(rootCmd); ok {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(cmd))
			return 2
		}
		// SilenceErrors prevents cobra from printing this itself
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first CLI argument when it names neither
// a flag nor a built-in command, i.e. when it may refer to a plugin.
func pluginCandidate(rootCmd *cobra.Command) (string, bool) {
	if len(os.Args) < 2 {
		return "", false
	}
	name := os.Args[1]
	if name == "" || name[0] == '-' {
		return "", false
	}
	if name == "help" || name == "completion" {
		return "", false
	}
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return "", false
		}
	}
	return name, true
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "billscan",
		Short: "Parse receipt OCR text and track spending",
		Long: `BillScan turns raw receipt OCR text into structured purchase data.

It extracts:
  - The purchase date (first readable date wins)
  - Line items with name, quantity and amount

Imported receipts are stored locally and aggregated into monthly
spending reports.

PLUGINS:
  BillScan supports plugins for extended functionality. Plugins are
  standalone binaries named billscan-<command> that are automatically
  discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the billscan binary
    2. ~/.billscan/plugins/
    3. Anywhere in PATH

  Available plugins:
    ocr      Extract text from receipt images (https://github.com/billscan/billscan-ocr)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewLocalesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

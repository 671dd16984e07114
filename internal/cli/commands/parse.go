package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/config"
	"github.com/billscan/billscan/pkg/output"
	"github.com/billscan/billscan/pkg/parser"
	"github.com/billscan/billscan/pkg/store"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config  string
	Locale  string
	Output  string
	Verbose bool
	Quiet   bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <receipt-file>...",
		Short: "Parse receipt OCR text into structured data",
		Long: `Parse receipt text files into purchase dates and line items.

Each file is parsed independently with the configured locale. Pass -
to read a single receipt from stdin. Parsing
is all or nothing per receipt: a file without a readable date fails
with "No date found" and one without readable items with "No items
found". Failed files are reported on stderr and the remaining files
still parse.

Exit codes:
  0 - All files parsed
  1 - One or more files failed to parse
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (defaults apply without one)")
	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", "", "Receipt locale (overrides config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show receipt metadata, not just date and items")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	locale := cfg.Locale
	if opts.Locale != "" {
		locale = opts.Locale
	}

	// Expand receipt path globs
	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding receipt paths: %w", err)
	}

	formatter, err := createFormatter(cfg, opts.Output, opts.Verbose, opts.Quiet)
	if err != nil {
		return err
	}

	driver := parser.NewRegistry().Load(locale)

	for _, file := range files {
		raw, err := readReceipt(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			ExitCode = 1
			continue
		}

		parsed, err := driver.Parse(string(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			ExitCode = 1
			continue
		}

		receipt := &store.Receipt{
			ID:         store.Fingerprint(string(raw)),
			Source:     file,
			Locale:     locale,
			Date:       parsed.Date,
			Items:      parsed.Items,
			ImportedAt: time.Now().UTC(),
		}

		if err := formatter.FormatReceipt(ctx, receipt, os.Stdout); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	return nil
}

// readReceipt reads a receipt text from a file, or from stdin when the
// path is "-".
func readReceipt(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path) // #nosec G304 -- user-provided receipt path
}

// loadConfig loads the config file when a path is given, otherwise
// builds the default config with environment overrides applied.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(ctx, path)
	}

	cfg := config.DefaultConfig()
	cfg.ApplyEnvironmentOverrides()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createFormatter builds the output formatter. CLI flags override the
// config file settings.
func createFormatter(cfg *config.Config, format string, verbose, quiet bool) (output.Formatter, error) {
	if format == "" {
		format = cfg.Output.Format
	}

	return output.New(format, output.FormatOptions{
		Verbose: verbose || cfg.Output.Verbose,
		Quiet:   quiet,
	})
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/parser"
	"github.com/billscan/billscan/pkg/store"
)

// ImportOptions holds command-line options for the import command.
type ImportOptions struct {
	Config         string
	Locale         string
	SkipDuplicates bool
	Quiet          bool
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <receipt-file>...",
		Short: "Parse receipts and save them to the database",
		Long: `Parse receipt text files and save the results to the receipt database.

Each receipt is stored under the fingerprint of its raw text, so
importing the same upload twice is detected regardless of file name.
Duplicates are an error unless --skip-duplicates is given.

Exit codes:
  0 - All files imported
  1 - One or more files failed to parse or import
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (defaults apply without one)")
	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", "", "Receipt locale (overrides config)")
	cmd.Flags().BoolVar(&opts.SkipDuplicates, "skip-duplicates", false, "Skip already imported receipts instead of failing")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-file lines")

	return cmd
}

func runImport(cmd *cobra.Command, args []string, opts *ImportOptions) error {
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

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding receipt paths: %w", err)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening receipt database: %w", err)
	}
	defer st.Close()

	driver := parser.NewRegistry().Load(locale)

	imported, skipped, failed := 0, 0, 0

	for _, file := range files {
		raw, err := os.ReadFile(file) // #nosec G304 -- user-provided receipt path
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			failed++
			continue
		}

		parsed, err := driver.Parse(string(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			failed++
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

		err = st.Save(receipt)
		switch {
		case err == nil:
			imported++
			if !opts.Quiet {
				fmt.Printf("%s: imported as %s (%d item(s))\n", file, shortID(receipt.ID), len(receipt.Items))
			}
		case errors.Is(err, store.ErrDuplicate):
			if opts.SkipDuplicates {
				skipped++
				if !opts.Quiet {
					fmt.Printf("%s: already imported, skipping\n", file)
				}
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
				failed++
			}
		default:
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			failed++
		}
	}

	fmt.Printf("Imported %d receipt(s), %d skipped, %d failed\n", imported, skipped, failed)

	if failed > 0 {
		ExitCode = 1
	}

	return nil
}

// shortID truncates a receipt fingerprint for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

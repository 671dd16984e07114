package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/detector"
	"github.com/billscan/billscan/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Config  string
	Locale  string
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <receipt-file>",
		Short: "Diagnose why a receipt fails to parse",
		Long: `Diagnose why a receipt text fails to parse.

This command checks a receipt file for common problems:
- File existence and accessibility
- Date extraction with the selected locale
- Item extraction with the selected locale
- Total line presence
- Whether another locale matches the text better

Example:
  billscan diagnose receipt.txt
  billscan diagnose --locale fi receipt.txt
  billscan diagnose -v receipt.txt  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (defaults apply without one)")
	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", "", "Receipt locale (overrides config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, receiptPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check receipt file existence
	result := checkReceiptExists(receiptPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	// 2. Resolve the locale
	locale, localeResult, err := resolveLocale(ctx, opts)
	if err != nil {
		return err
	}
	results = append(results, localeResult)

	// 3. Read receipt content
	raw, contentResult := checkReceiptContent(receiptPath)
	results = append(results, contentResult)
	if contentResult.Status == "error" {
		printDiagnostics(results, opts)
		return nil
	}

	registry := parser.NewRegistry()
	pairing := registry.Pairing(locale)
	words := parser.Words(raw)
	lines := parser.Lines(raw)

	// 4. Check date extraction
	results = append(results, checkDate(pairing, words))

	// 5. Check item extraction and total line
	results = append(results, checkItems(pairing, lines, opts)...)

	// 6. Compare against other locales
	results = append(results, checkLocaleFit(registry, locale, raw)...)

	printDiagnostics(results, opts)
	return nil
}

func checkReceiptExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Receipt File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Receipt file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access receipt file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Receipt file is empty"
		result.Suggests = []string{
			"The OCR step may have produced no text for this upload",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

// resolveLocale determines the locale to diagnose with, from the flag or
// the config, and reports whether it is a registered locale.
func resolveLocale(ctx context.Context, opts *DiagnoseOptions) (string, DiagnosticResult, error) {
	result := DiagnosticResult{
		Check: "Locale",
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return "", result, fmt.Errorf("loading config: %w", err)
	}

	locale := cfg.Locale
	if opts.Locale != "" {
		locale = opts.Locale
	}

	registered := false
	for _, name := range parser.NewRegistry().Names() {
		if name == locale {
			registered = true
			break
		}
	}

	if registered {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Using locale: %s", locale)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Locale %q is not registered, falling back to %q", locale, parser.DefaultLocale)
		result.Suggests = []string{
			"Run 'billscan locales' to list supported locales",
		}
	}

	return locale, result, nil
}

func checkReceiptContent(path string) (string, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Receipt Content",
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided receipt path
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return "", result
	}

	raw := string(data)
	lines := parser.Lines(raw)
	words := parser.Words(raw)

	if len(lines) == 0 {
		result.Status = "error"
		result.Message = "File contains no non-blank lines"
		return raw, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d line(s), %d word(s)", len(lines), len(words))
	if len(lines) < 3 {
		result.Status = "warning"
		result.Message += " (very short for a receipt)"
	}
	return raw, result
}

func checkDate(pairing parser.Pairing, words []string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Date Extraction",
	}

	date, err := pairing.Dates.FindDate(words)
	if err != nil {
		result.Status = "error"
		result.Message = "No word in the text parsed as a calendar date"
		result.Suggests = []string{
			"Words shorter than 6 characters are never treated as dates",
			"Supported spellings include 2017-04-23, 23.4.2017 and 4/07/2017",
			"Check whether OCR mangled the date digits",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Purchase date: %s", date)
	return result
}

func checkItems(pairing parser.Pairing, lines []string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	itemResult := DiagnosticResult{
		Check: "Item Extraction",
	}

	items, err := parser.FindItems(lines, pairing.Items)
	if err != nil {
		itemResult.Status = "error"
		itemResult.Message = "No line classified as a purchased item"
		itemResult.Suggests = []string{
			"Run 'billscan detect' on this file to find a better locale",
			"Item lines need a name and a price amount on the same line",
		}
		if len(lines) > 0 {
			itemResult.Details = []string{
				"First line of the file:",
				truncate(lines[0], 80),
			}
		}
	} else {
		itemResult.Status = "ok"
		itemResult.Message = fmt.Sprintf("%d item(s) recognized", len(items))
		if opts.Verbose {
			max := len(items)
			if max > 5 {
				max = 5
			}
			for _, item := range items[:max] {
				itemResult.Details = append(itemResult.Details,
					fmt.Sprintf("%dx %s (%.2f)", item.Quantity, item.Name, item.Amount))
			}
		}
	}
	results = append(results, itemResult)

	totalResult := DiagnosticResult{
		Check: "Total Line",
	}
	totalFound := false
	for _, line := range lines {
		if pairing.Items.IsTotalLine(line) {
			totalFound = true
			if opts.Verbose {
				totalResult.Details = []string{truncate(line, 80)}
			}
			break
		}
	}
	if totalFound {
		totalResult.Status = "ok"
		totalResult.Message = "Summary section marker found"
	} else {
		totalResult.Status = "warning"
		totalResult.Message = "No summary section marker found"
		totalResult.Suggests = []string{
			"Without one, every line up to the end of the file is scanned for items",
		}
	}
	results = append(results, totalResult)

	return results
}

// checkLocaleFit runs locale detection and warns when another locale
// scores higher than the one being diagnosed.
func checkLocaleFit(registry *parser.Registry, locale, raw string) []DiagnosticResult {
	result := DiagnosticResult{
		Check: "Locale Fit",
	}

	detection := detector.New(registry).DetectFromText(raw)
	best := detection.BestMatch()

	switch {
	case best == nil:
		result.Status = "warning"
		result.Message = "No registered locale recognizes this text"
	case best.Locale == locale:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s is the best matching locale (%.1f%% confidence)", best.Locale, best.Confidence*100)
	default:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Locale %q matches this text better than %q", best.Locale, locale)
		result.Suggests = []string{
			fmt.Sprintf("Try: billscan parse --locale %s <file>", best.Locale),
		}
	}

	return []DiagnosticResult{result}
}

func printDiagnostics(results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Println("=== BillScan Receipt Diagnostics ===")
	fmt.Println()

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Printf("[%s] %s\n", icon, r.Check)
		fmt.Printf("    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Printf("      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Printf("      Hint: %s\n", s)
		}

		fmt.Println()
	}

	// Summary
	fmt.Println("---")
	fmt.Printf("Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Println("\nFix the errors above before importing this receipt.")
	} else if warnCount > 0 {
		fmt.Println("\nReceipt is parseable but has warnings.")
	} else {
		fmt.Println("\nReceipt looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/detector"
	"github.com/billscan/billscan/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <receipt-file>",
		Short: "Detect the locale of a receipt text",
		Long: `Analyze a receipt text file to automatically detect its locale.

Scores every registered locale against the file: a locale's confidence
is the share of lines it recognizes as items, plus a bonus when its
total marker is present. Reports the best match with a ready-to-use
YAML configuration snippet.

Optionally generates a starter config file with --write-config.

Example:
  billscan detect receipt.txt
  billscan detect --sample 50 receipt.txt
  billscan detect --write-config billscan.yaml receipt.txt
  billscan detect -w billscan.yaml receipt.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching locales, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	receiptFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(receiptFile); os.IsNotExist(err) {
		return fmt.Errorf("receipt file not found: %s", receiptFile)
	}

	// Create detector
	d := detector.New(parser.NewRegistry(), detector.WithSampleSize(opts.SampleSize))

	// Run detection
	result, err := d.DetectFromFile(ctx, receiptFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, opts.WriteConfig); err != nil {
			return err
		}
	}

	// Output results
	switch opts.Output {
	case "json":
		return outputDetectJSON(result, receiptFile, opts)
	default:
		return outputDetectText(result, receiptFile, opts)
	}
}

func outputDetectText(result *detector.DetectionResult, receiptFile string, opts *DetectOptions) error {
	fmt.Println("=== Receipt Locale Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", receiptFile)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Println()

	if !result.HasMatch() {
		fmt.Println("No locale detected.")
		fmt.Println()
		fmt.Println("Tip: No registered locale recognized any line as an item.")
		fmt.Println("Check the first few lines manually, the OCR text may be garbled.")
		return nil
	}

	// Show best match
	best := result.BestMatch()
	fmt.Printf("Detected locale: %s\n", best.Locale)
	fmt.Printf("Confidence: %.1f%% (%d item(s) recognized)\n", best.Confidence*100, best.ItemCount)
	if best.SampleItem != "" {
		fmt.Printf("Sample item: %s\n", best.SampleItem)
	}
	fmt.Printf("Total line found: %s\n", yesNo(best.TotalLineFound))
	fmt.Printf("Date found: %s\n", yesNo(best.DateFound))
	fmt.Println()

	if !best.DateFound {
		fmt.Println("WARNING: No purchase date was found in the sampled text.")
		fmt.Println("Parsing this receipt will fail until the date is readable.")
		fmt.Println()
	}

	// YAML snippet
	fmt.Println("--- Configuration snippet (copy to your config file) ---")
	fmt.Println()
	fmt.Printf("locale: %s\n", best.Locale)
	fmt.Println()

	// Show alternatives if requested
	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Println("--- Alternative locales detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Printf("%d. %s (%.1f%% confidence, %d item(s))\n", i+2, m.Locale, m.Confidence*100, m.ItemCount)
		}
		fmt.Println()
	}

	return nil
}

// JSONMatch represents a locale match in JSON output.
type JSONMatch struct {
	Locale         string  `json:"locale"`
	Confidence     float64 `json:"confidence"`
	ItemCount      int     `json:"item_count"`
	TotalLineFound bool    `json:"total_line_found"`
	DateFound      bool    `json:"date_found"`
	SampleItem     string  `json:"sample_item,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
}

func outputDetectJSON(result *detector.DetectionResult, receiptFile string, opts *DetectOptions) error {
	output := JSONOutput{
		File:         receiptFile,
		SampledLines: result.SampledLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		output.Matches = append(output.Matches, JSONMatch{
			Locale:         m.Locale,
			Confidence:     m.Confidence,
			ItemCount:      m.ItemCount,
			TotalLineFound: m.TotalLineFound,
			DateFound:      m.DateFound,
			SampleItem:     m.SampleItem,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// writeStarterConfig generates a starter config file with the detected locale.
func writeStarterConfig(result *detector.DetectionResult, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	// Need a detected locale to generate config
	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no locale detected")
	}

	best := result.BestMatch()

	// Generate the config content
	config := generateStarterConfig(best)

	// Write the file
	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(match *detector.LocaleMatch) string {
	return fmt.Sprintf(`# BillScan Configuration
# Generated by: billscan detect
# Detected locale: %s (%.0f%% confidence)

locale: %s

# Receipt database location
store: billscan.db

output:
  format: text

# Optional: send spending reports to a webhook
# webhooks:
#   - name: spending
#     url: https://example.com/hook
#     token: ${BILLSCAN_WEBHOOK_TOKEN}
#     trigger: on_reports
#     timeout: 10s
`, match.Locale, match.Confidence*100, match.Locale)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/billscan/billscan/pkg/config"
	"github.com/billscan/billscan/pkg/spending"
	"github.com/billscan/billscan/pkg/store"
	"github.com/billscan/billscan/pkg/webhook"
)

// ReportOptions holds command-line options for the report command.
type ReportOptions struct {
	Config  string
	Month   string
	From    string
	To      string
	Limit   int
	Output  string
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report spending aggregated from imported receipts",
		Long: `Aggregate imported receipts into a spending report.

Purchases of the same item are grouped case insensitively and ordered
by total amount, largest first. The report covers all imported
receipts unless a time window is given.

Example:
  billscan report
  billscan report --month 2017-04
  billscan report --from 2017-01-01 --to 2017-07-01 --limit 10
  billscan report -o json --webhook-url https://example.com/hook

Exit codes:
  0 - Report generated
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (defaults apply without one)")
	cmd.Flags().StringVar(&opts.Month, "month", "", "Limit report to one calendar month (YYYY-MM)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Window begin date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Window end date, exclusive (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Show only the n most expensive items")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show time frame and generation metadata")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-item lines")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_reports", "When to fire webhook (on_reports|always|never)")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	reporterOpts, err := timeFrameOptions(opts)
	if err != nil {
		return err
	}
	if opts.Limit > 0 {
		reporterOpts = append(reporterOpts, spending.WithLimit(opts.Limit))
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening receipt database: %w", err)
	}
	defer st.Close()

	receipts, err := st.List()
	if err != nil {
		return fmt.Errorf("listing receipts: %w", err)
	}

	report := spending.NewReporter(reporterOpts...).Report(receipts)

	formatter, err := createFormatter(cfg, opts.Output, opts.Verbose, opts.Quiet)
	if err != nil {
		return err
	}

	if err := formatter.FormatReport(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the report)
	sendWebhooks(ctx, cfg, opts, report)

	return nil
}

// timeFrameOptions translates the --month and --from/--to flags into
// reporter options. The two forms are mutually exclusive.
func timeFrameOptions(opts *ReportOptions) ([]spending.ReporterOption, error) {
	if opts.Month != "" && (opts.From != "" || opts.To != "") {
		return nil, fmt.Errorf("--month cannot be combined with --from/--to")
	}

	if opts.Month != "" {
		t, err := time.Parse("2006-01", opts.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q (use YYYY-MM): %w", opts.Month, err)
		}
		return []spending.ReporterOption{spending.WithMonth(t.Year(), t.Month())}, nil
	}

	if opts.From != "" || opts.To != "" {
		if opts.From == "" || opts.To == "" {
			return nil, fmt.Errorf("--from and --to must be given together")
		}
		begin, err := time.Parse("2006-01-02", opts.From)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q (use YYYY-MM-DD): %w", opts.From, err)
		}
		end, err := time.Parse("2006-01-02", opts.To)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q (use YYYY-MM-DD): %w", opts.To, err)
		}
		if !end.After(begin) {
			return nil, fmt.Errorf("--to must be after --from")
		}
		return []spending.ReporterOption{spending.WithTimeFrame(begin, end)}, nil
	}

	return nil, nil
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the report.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ReportOptions, report *spending.Report) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		// Check trigger condition
		if !shouldFireWebhook(wh.Trigger, report.HasItems()) {
			continue
		}

		// Send webhook
		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		// Log result
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnReports
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger
// and report contents.
func shouldFireWebhook(trigger config.WebhookTrigger, hasItems bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnReports:
		return hasItems
	default:
		// Default to on_reports
		return hasItems
	}
}

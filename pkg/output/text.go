package output

import (
	"context"
	"fmt"
	"io"

	"github.com/billscan/billscan/pkg/spending"
	"github.com/billscan/billscan/pkg/store"
)

// TextFormatter formats results as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// FormatReceipt renders a parsed receipt as text.
func (f *TextFormatter) FormatReceipt(ctx context.Context, receipt *store.Receipt, w io.Writer) error {
	if f.opts.Quiet {
		total := 0.0
		for _, item := range receipt.Items {
			total += item.Amount
		}
		fmt.Fprintf(w, "%s: %d item(s), %.2f\n", receipt.Date, len(receipt.Items), total)
		return nil
	}

	fmt.Fprintf(w, "Date: %s\n", receipt.Date)
	fmt.Fprintln(w, "Items:")

	total := 0.0
	for _, item := range receipt.Items {
		fmt.Fprintf(w, "  %dx %-30s %8.2f\n", item.Quantity, item.Name, item.Amount)
		total += item.Amount
	}
	fmt.Fprintf(w, "Total: %.2f\n", total)

	if f.opts.Verbose {
		if receipt.Locale != "" {
			fmt.Fprintf(w, "Locale: %s\n", receipt.Locale)
		}
		if receipt.Source != "" {
			fmt.Fprintf(w, "Source: %s\n", receipt.Source)
		}
		if receipt.ID != "" {
			fmt.Fprintf(w, "ID: %s\n", receipt.ID)
		}
	}

	return nil
}

// FormatReport renders a spending report as text.
func (f *TextFormatter) FormatReport(ctx context.Context, report *spending.Report, w io.Writer) error {
	if f.opts.Quiet {
		fmt.Fprintf(w, "BillScan: %d receipt(s), %d item(s), total %.2f\n",
			report.Metadata.ReceiptCount,
			len(report.Items),
			report.TotalAmount())
		return nil
	}

	fmt.Fprintln(w, "=== BillScan Spending Report ===")
	fmt.Fprintln(w)

	if !report.HasItems() {
		fmt.Fprintln(w, "No spending recorded")
		fmt.Fprintln(w)
	}

	for _, item := range report.Items {
		fmt.Fprintf(w, "  %-30s x%-4d %8.2f  (%d receipt(s))\n",
			item.Name, item.Quantity, item.Amount, item.Receipts)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d receipt(s), %d distinct item(s), total %.2f\n",
		report.Metadata.ReceiptCount,
		len(report.Items),
		report.TotalAmount())

	if f.opts.Verbose {
		if tf := report.Metadata.TimeFrame; tf != nil {
			fmt.Fprintf(w, "Time frame: %s to %s\n",
				tf.Begin.Format("2006-01-02"),
				tf.End.Format("2006-01-02"))
		}
		fmt.Fprintf(w, "Generated: %s\n", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/billscan/billscan/pkg/spending"
	"github.com/billscan/billscan/pkg/store"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatReceipt renders a parsed receipt as JSON.
func (f *JSONFormatter) FormatReceipt(ctx context.Context, receipt *store.Receipt, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(receipt)
}

// reportSummary is the quiet-mode report shape.
type reportSummary struct {
	ReceiptCount int     `json:"receipt_count"`
	ItemCount    int     `json:"item_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// FormatReport renders a spending report as JSON.
func (f *JSONFormatter) FormatReport(ctx context.Context, report *spending.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(reportSummary{
			ReceiptCount: report.Metadata.ReceiptCount,
			ItemCount:    len(report.Items),
			TotalAmount:  report.TotalAmount(),
		})
	}

	return encoder.Encode(report)
}

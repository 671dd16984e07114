// Package output renders parsed receipts and spending reports.
package output

import (
	"context"
	"fmt"
	"io"

	"github.com/billscan/billscan/pkg/spending"
	"github.com/billscan/billscan/pkg/store"
)

// Formatter renders results in a specific format.
type Formatter interface {
	// FormatReceipt renders a single parsed receipt to the given writer.
	FormatReceipt(ctx context.Context, receipt *store.Receipt, w io.Writer) error

	// FormatReport renders a spending report to the given writer.
	FormatReport(ctx context.Context, report *spending.Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose enables detailed output including metadata.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

// New returns the formatter registered under the given name.
func New(format string, opts FormatOptions) (Formatter, error) {
	switch format {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

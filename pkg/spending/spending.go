package spending

import (
	"sort"
	"strings"
	"time"

	"github.com/billscan/billscan/pkg/store"
)

// Reporter aggregates receipts into a spending report.
type Reporter struct {
	timeFrame *TimeFrame
	limit     int
}

// ReporterOption configures reporter behavior.
type ReporterOption func(*Reporter)

// WithTimeFrame limits the report to receipts dated within [begin, end).
func WithTimeFrame(begin, end time.Time) ReporterOption {
	return func(r *Reporter) {
		r.timeFrame = &TimeFrame{Begin: begin, End: end}
	}
}

// WithMonth limits the report to one calendar month.
func WithMonth(year int, month time.Month) ReporterOption {
	begin := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return WithTimeFrame(begin, begin.AddDate(0, 1, 0))
}

// WithLimit caps the report at the n most expensive items.
func WithLimit(n int) ReporterOption {
	return func(r *Reporter) {
		r.limit = n
	}
}

// NewReporter creates a reporter.
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report aggregates the given receipts. Item names are grouped case
// insensitively; the spelling from the first purchase seen is kept for
// display. Items are ordered by total amount, largest first, with name
// order breaking ties so repeated runs produce identical reports.
func (r *Reporter) Report(receipts []*store.Receipt) *Report {
	type entry struct {
		summary  ItemSummary
		receipts map[string]bool
	}
	entries := make(map[string]*entry)

	report := &Report{
		Items: make([]ItemSummary, 0),
		Metadata: Metadata{
			TimeFrame:   r.timeFrame,
			GeneratedAt: time.Now().UTC(),
		},
	}

	for _, receipt := range receipts {
		if r.timeFrame != nil && !r.timeFrame.Contains(receipt.Date.Time) {
			continue
		}
		report.Metadata.ReceiptCount++

		for _, item := range receipt.Items {
			key := strings.ToLower(item.Name)
			e, ok := entries[key]
			if !ok {
				e = &entry{
					summary:  ItemSummary{Name: item.Name},
					receipts: make(map[string]bool),
				}
				entries[key] = e
			}
			e.summary.Quantity += item.Quantity
			e.summary.Amount += item.Amount
			e.receipts[receipt.ID] = true
		}
	}

	for _, e := range entries {
		e.summary.Receipts = len(e.receipts)
		report.Items = append(report.Items, e.summary)
	}

	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].Amount != report.Items[j].Amount {
			return report.Items[i].Amount > report.Items[j].Amount
		}
		return report.Items[i].Name < report.Items[j].Name
	})

	if r.limit > 0 && len(report.Items) > r.limit {
		report.Items = report.Items[:r.limit]
	}

	return report
}

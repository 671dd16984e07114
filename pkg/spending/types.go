// Package spending aggregates stored receipts into spending reports.
package spending

import (
	"time"
)

// Report contains the aggregated spending output.
type Report struct {
	// Items contains one summary per distinct item name, ordered by
	// total amount, largest first.
	Items []ItemSummary `json:"items"`

	// Metadata provides context about the report run.
	Metadata Metadata `json:"metadata"`
}

// ItemSummary aggregates every purchase of one item.
type ItemSummary struct {
	// Name is the item name as it first appeared on a receipt.
	Name string `json:"name"`

	// Receipts is the number of distinct receipts the item appears on.
	Receipts int `json:"receipts"`

	// Quantity is the summed quantity across all purchases.
	Quantity int `json:"quantity"`

	// Amount is the summed line amount across all purchases.
	Amount float64 `json:"amount"`
}

// Metadata provides context about the report run.
type Metadata struct {
	// TimeFrame is the date filter applied, if any.
	TimeFrame *TimeFrame `json:"time_frame,omitempty"`

	// ReceiptCount is the number of receipts that contributed.
	ReceiptCount int `json:"receipt_count"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// TimeFrame is a date window: Begin inclusive, End exclusive. Month
// reports use the first day of the month and the first day of the next.
type TimeFrame struct {
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the frame.
func (f *TimeFrame) Contains(t time.Time) bool {
	return !t.Before(f.Begin) && t.Before(f.End)
}

// TotalAmount returns the overall spend across all items.
func (r *Report) TotalAmount() float64 {
	total := 0.0
	for _, item := range r.Items {
		total += item.Amount
	}
	return total
}

// TotalQuantity returns the overall number of units purchased.
func (r *Report) TotalQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// HasItems returns true if any item contributed to the report.
func (r *Report) HasItems() bool {
	return len(r.Items) > 0
}

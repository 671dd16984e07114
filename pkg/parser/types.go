// Package parser extracts purchase dates and line items from raw receipt
// OCR text.
package parser

import (
	"encoding/json"
	"time"
)

// DateLayout is the fixed serialization layout for receipt dates. The
// time component is always zero: receipts rarely encode a reliable time.
const DateLayout = "2006-01-02 15:04:05"

// Date is the purchase date of a receipt, pinned to midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as "YYYY-MM-DD 00:00:00".
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON serializes the date in the fixed layout.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON parses a date serialized in the fixed layout.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// LineItem is one purchased product as printed on the receipt.
type LineItem struct {
	// Name is the product name. Never empty.
	Name string `json:"name"`

	// Quantity is the number of units bought. Always positive.
	Quantity int `json:"quantity"`

	// Amount is the total monetary amount for the line.
	Amount float64 `json:"amount"`
}

// Receipt is the structured result of a successful parse. It is only
// constructed when both the date and at least one item were found.
type Receipt struct {
	Date  Date       `json:"date"`
	Items []LineItem `json:"items"`
}

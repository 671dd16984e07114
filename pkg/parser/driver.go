package parser

import (
	"log/slog"
	"strings"
)

// Driver pairs an ItemRecognizer with a DateRecognizer and runs the
// locale-agnostic half of receipt parsing. It holds no state and is safe
// for concurrent use.
type Driver struct {
	items ItemRecognizer
	dates DateRecognizer
}

// NewDriver creates a Driver from the given recognizer pairing.
func NewDriver(items ItemRecognizer, dates DateRecognizer) *Driver {
	return &Driver{items: items, dates: dates}
}

// Parse extracts the purchase date and line items from raw OCR text.
// Date discovery runs over the words of the whole text and item discovery
// over its lines; the two passes are independent. Parsing is all or
// nothing: a receipt without a readable date fails with ErrNoDateFound
// and one without readable items with ErrNoItemsFound.
func (d *Driver) Parse(raw string) (*Receipt, error) {
	date, err := d.dates.FindDate(Words(raw))
	if err != nil {
		return nil, err
	}

	items, err := FindItems(Lines(raw), d.items)
	if err != nil {
		return nil, err
	}

	return &Receipt{Date: date, Items: items}, nil
}

// Lines splits raw OCR text into trimmed, non-blank lines, preserving
// document order. Order is semantically meaningful: items appear before
// the total line.
func Lines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Words splits raw OCR text into whitespace-delimited tokens, preserving
// document order.
func Words(raw string) []string {
	return strings.Fields(raw)
}

// FindItems walks lines in document order and collects every item the
// recognizer accepts. Recognizers that continue an item onto the next
// physical line see a two-line window; the window never reaches past the
// locale's total line, and scanning stops there entirely. Lines the
// recognizer rejects are skipped silently. Only an empty overall result
// is an error.
func FindItems(lines []string, rec ItemRecognizer) ([]LineItem, error) {
	var items []LineItem

	for i := 0; i < len(lines); {
		if rec.IsTotalLine(lines[i]) {
			slog.Debug("reached total line, stopping item scan", "line", lines[i])
			break
		}

		window := lines[i : i+1]
		if i+1 < len(lines) && !rec.IsTotalLine(lines[i+1]) {
			window = lines[i : i+2]
		}

		item, consumed, ok := rec.Classify(window)
		if !ok {
			i++
			continue
		}
		items = append(items, item)
		i += consumed
	}

	if len(items) == 0 {
		return nil, ErrNoItemsFound
	}
	return items, nil
}

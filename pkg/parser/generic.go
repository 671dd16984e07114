package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// genericItemPattern expects an item name of letters and spaces at line
// start, immediately followed by the quantity digits.
var genericItemPattern = regexp.MustCompile(`^([a-zA-Z\s]+)(\d+)`)

// GenericRecognizer reads single-line items in the common
// "NAME QTY ... AMOUNT" shape. It is the default locale.
type GenericRecognizer struct{}

// NewGenericRecognizer creates the generic recognizer.
func NewGenericRecognizer() *GenericRecognizer {
	return &GenericRecognizer{}
}

// IsTotalLine reports whether the line contains the "total" marker.
func (r *GenericRecognizer) IsTotalLine(line string) bool {
	return strings.Contains(strings.ToLower(line), "total")
}

// Classify reads an item from the first line of the window. The amount
// is the last whitespace token on the line that parses as a float, with
// a comma decimal separator normalized to a period. The quantity is the
// digit run right after the name, not any later "N @ price" decoration.
func (r *GenericRecognizer) Classify(window []string) (LineItem, int, bool) {
	line := window[0]

	m := genericItemPattern.FindStringSubmatch(line)
	if m == nil {
		return LineItem{}, 0, false
	}
	name := strings.TrimSpace(m[1])
	quantity, err := strconv.Atoi(m[2])
	if name == "" || err != nil {
		return LineItem{}, 0, false
	}

	amount, ok := lastFloat(line)
	if !ok {
		slog.Debug("line has no amount token", "line", line)
		return LineItem{}, 0, false
	}

	return LineItem{Name: name, Quantity: quantity, Amount: amount}, 1, true
}

// lastFloat returns the last whitespace-delimited token of the line that
// parses as a float.
func lastFloat(line string) (float64, bool) {
	words := strings.Fields(line)
	for i := len(words) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(strings.ReplaceAll(words[i], ",", "."), 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

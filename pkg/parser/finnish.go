package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// finnishBlockedWords are tax labels that must never be read as item
// names, no matter how well the rest of the line matches.
var finnishBlockedWords = []string{"vero", "verton", "alv"}

var (
	// finnishNamePattern tolerates a numeric product code before the
	// alphabetic name.
	finnishNamePattern = regexp.MustCompile(`^([\d ]+)?([a-zA-Z&\s]+)`)

	// finnishQuantityPattern reads an explicit quantity with an optional
	// "kpl" unit marker from a continuation line.
	finnishQuantityPattern = regexp.MustCompile(`^\s*(\d+)\s*(?:kpl|KPL)?`)

	// finnishAmountPattern is the strict money token shape: digits with
	// an optional decimal part and an optional currency suffix. Looser
	// tokens such as "20%" are not amounts on Finnish receipts.
	finnishAmountPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)(?:€|EUR|eur)?$`)
)

// FinnishRecognizer reads Finnish grocery receipts, where one item may
// span two physical lines: name and amount on the first, an explicit
// quantity and unit price on the second.
type FinnishRecognizer struct{}

// NewFinnishRecognizer creates the Finnish recognizer.
func NewFinnishRecognizer() *FinnishRecognizer {
	return &FinnishRecognizer{}
}

// IsTotalLine matches the substring "yhteens", covering both the
// accented and unaccented OCR renderings of "yhteensä".
func (r *FinnishRecognizer) IsTotalLine(line string) bool {
	return strings.Contains(strings.ToLower(line), "yhteens")
}

// Classify reads an item from one or two consecutive lines. The merged
// amount is the first line's when present, otherwise the second line's;
// the merged quantity is the second line's when present, otherwise 1.
// The second line counts as consumed only when it contributed a value;
// otherwise it is left for the scan to examine as its own candidate.
func (r *FinnishRecognizer) Classify(window []string) (LineItem, int, bool) {
	name, amount, ok := r.parseFirstLine(window[0])
	if !ok {
		return LineItem{}, 0, false
	}

	consumed := 1
	quantity := 0
	if len(window) > 1 {
		secondAmount, secondQuantity := r.parseSecondLine(window[1])
		if amount == 0 && secondAmount != 0 {
			amount = secondAmount
			consumed = 2
		}
		if secondQuantity != 0 {
			quantity = secondQuantity
			consumed = 2
		}
	}
	if quantity == 0 {
		quantity = 1 // first lines carry no quantity marker in this locale
	}

	if amount == 0 {
		slog.Debug("discarding item candidate without amount", "line", window[0], "name", name)
		return LineItem{}, 0, false
	}
	return LineItem{Name: name, Quantity: quantity, Amount: amount}, consumed, true
}

// parseFirstLine extracts the item name and, when present, the amount
// from the line an item starts on. ok is false when the line has no
// acceptable name at all.
func (r *FinnishRecognizer) parseFirstLine(line string) (name string, amount float64, ok bool) {
	m := finnishNamePattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	name = strings.TrimSpace(m[2])
	if name == "" || r.isBlockedName(name) {
		return "", 0, false
	}

	rest := line[strings.LastIndex(line, name)+len(name):]
	// The name match stops at the first non-letter, which may be the
	// middle of a glued token. Drop that token's remainder before
	// looking for an amount.
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rest = rest[i:]
	} else {
		rest = ""
	}

	amount, _ = r.amount(rest)
	return name, amount, true
}

// parseSecondLine reads an explicit quantity and a fallback amount from
// a potential continuation line. Zero values mean "not present". A
// continuation line must lead with its quantity digits; without them the
// line contributes nothing, so an unrelated following line cannot leak
// its amount into the current item. The amount search starts after the
// quantity prefix so a bare "3 KPL" line does not read its own quantity
// back as a price.
func (r *FinnishRecognizer) parseSecondLine(line string) (amount float64, quantity int) {
	m := finnishQuantityPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, 0
	}
	q, err := strconv.Atoi(line[m[2]:m[3]])
	if err != nil || q == 0 {
		return 0, 0
	}
	amount, _ = r.amount(line[m[1]:])
	return amount, q
}

func (r *FinnishRecognizer) isBlockedName(name string) bool {
	for _, word := range strings.Fields(strings.ToLower(name)) {
		for _, blocked := range finnishBlockedWords {
			if word == blocked {
				return true
			}
		}
	}
	return false
}

// amount returns the last whitespace token matching the strict money
// pattern. Receipts never price a line at zero, so zero doubles as "not
// found" throughout the merge logic.
func (r *FinnishRecognizer) amount(s string) (float64, bool) {
	words := strings.Fields(s)
	for i := len(words) - 1; i >= 0; i-- {
		m := finnishAmountPattern.FindStringSubmatch(words[i])
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

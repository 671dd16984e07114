package parser

import (
	"log/slog"
	"time"
)

// minDateWordLength rejects tokens too short to encode a date: a 2-digit
// year, 1-digit month and day, plus at least two separator characters.
// Cheap length rejection avoids pointless parse attempts on the many
// short numeric tokens a receipt contains.
const minDateWordLength = 6

// dateLayouts are tried in order for every candidate word. Month-first
// layouts come before their day-first counterparts, so an ambiguous
// token like "4.07.17" reads as April 7th while "23.6.17" still resolves
// through the day-first fallback.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1.2.2006", "1.2.06",
	"1/2/2006", "1/2/06",
	"1-2-2006", "1-2-06",
	"2.1.2006", "2.1.06",
	"2/1/2006", "2/1/06",
	"2-1-2006", "2-1-06",
}

// WordDateRecognizer scans words for the first token that parses as a
// calendar date.
type WordDateRecognizer struct {
	layouts []string
}

// NewDateRecognizer returns a WordDateRecognizer. Layouts override the
// default set when given.
func NewDateRecognizer(layouts ...string) *WordDateRecognizer {
	if len(layouts) == 0 {
		layouts = dateLayouts
	}
	return &WordDateRecognizer{layouts: layouts}
}

// FindDate returns the date parsed from the first qualifying word in
// document order. Words shorter than the minimum length are rejected
// outright; longer words that fail every layout are expected OCR noise
// and skipped silently.
func (r *WordDateRecognizer) FindDate(words []string) (Date, error) {
	for _, word := range words {
		if len(word) < minDateWordLength {
			continue
		}
		if t, ok := r.parse(word); ok {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
		slog.Debug("word is not a date", "word", word)
	}
	return Date{}, ErrNoDateFound
}

func (r *WordDateRecognizer) parse(word string) (time.Time, bool) {
	for _, layout := range r.layouts {
		if t, err := time.Parse(layout, word); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

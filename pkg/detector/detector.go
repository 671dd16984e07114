// Package detector provides automatic locale detection for receipt texts.
package detector

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/billscan/billscan/pkg/parser"
)

// DetectionResult holds the result of analyzing a receipt text.
type DetectionResult struct {
	Matches      []LocaleMatch // Locales that matched, sorted by confidence descending
	SampledLines int           // Number of lines examined
}

// LocaleMatch represents a locale that matched with its confidence score.
type LocaleMatch struct {
	Locale         string  // Registered locale name
	Confidence     float64 // 0.0 to 1.0
	ItemCount      int     // Number of line items the locale recognized
	TotalLineFound bool    // Whether the locale's total marker was seen
	DateFound      bool    // Whether a purchase date was found
	SampleItem     string  // Name of the first recognized item
}

// totalLineBonus rewards locales whose total marker appears in the text.
// Item counts alone often tie across locales on simple receipts; the
// total marker is the strongest locale signal a receipt carries.
const totalLineBonus = 0.25

// Detector scores registered locales against receipt texts.
type Detector struct {
	registry   *parser.Registry
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the maximum number of lines to examine (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector scoring the registry's locales.
func New(registry *parser.Registry, opts ...Option) *Detector {
	d := &Detector{
		registry:   registry,
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a receipt text file and returns scored locales.
func (d *Detector) DetectFromFile(_ context.Context, path string) (*DetectionResult, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is provided by user via CLI
	if err != nil {
		return nil, fmt.Errorf("reading receipt text: %w", err)
	}
	return d.DetectFromText(string(data)), nil
}

// DetectFromText scores every registered locale against the text. A
// locale's confidence is the share of lines it recognizes as items, plus
// a bonus when its total marker is present. Locales that recognize
// nothing are omitted.
func (d *Detector) DetectFromText(raw string) *DetectionResult {
	lines := parser.Lines(raw)
	if len(lines) > d.sampleSize {
		lines = lines[:d.sampleSize]
	}

	result := &DetectionResult{
		SampledLines: len(lines),
	}
	if len(lines) == 0 {
		return result
	}

	words := parser.Words(raw)

	for _, name := range d.registry.Names() {
		pairing := d.registry.Pairing(name)

		items, _ := parser.FindItems(lines, pairing.Items)

		totalFound := false
		for _, line := range lines {
			if pairing.Items.IsTotalLine(line) {
				totalFound = true
				break
			}
		}

		if len(items) == 0 && !totalFound {
			continue
		}

		_, dateErr := pairing.Dates.FindDate(words)

		match := LocaleMatch{
			Locale:         name,
			Confidence:     float64(len(items)) / float64(len(lines)),
			ItemCount:      len(items),
			TotalLineFound: totalFound,
			DateFound:      dateErr == nil,
		}
		if totalFound {
			match.Confidence += totalLineBonus
		}
		if match.Confidence > 1 {
			match.Confidence = 1
		}
		if len(items) > 0 {
			match.SampleItem = items[0].Name
		}

		result.Matches = append(result.Matches, match)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.ItemCount != b.ItemCount {
			return a.ItemCount > b.ItemCount
		}
		return a.Locale < b.Locale
	})

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *LocaleMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one locale matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

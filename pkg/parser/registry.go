package parser

import (
	"log/slog"
	"sort"
)

// DefaultLocale is the locale used when an unknown name is requested.
const DefaultLocale = "generic"

// Pairing couples the two recognizers registered under one locale name.
type Pairing struct {
	Items ItemRecognizer
	Dates DateRecognizer
}

// Registry maps locale names to recognizer pairings. It is populated
// once at startup and read-only afterwards. Lookups never fail: parser
// selection comes from deployment configuration, and a misconfigured or
// renamed locale must degrade gracefully instead of breaking every
// receipt upload.
type Registry struct {
	pairings map[string]Pairing
	fallback string
}

// NewRegistry returns a registry with the built-in locales registered:
// "generic" (the default) and "fi".
func NewRegistry() *Registry {
	r := &Registry{
		pairings: make(map[string]Pairing),
		fallback: DefaultLocale,
	}
	dates := NewDateRecognizer()
	r.Register("generic", Pairing{Items: NewGenericRecognizer(), Dates: dates})
	r.Register("fi", Pairing{Items: NewFinnishRecognizer(), Dates: dates})
	return r
}

// Register adds a pairing under the given name, replacing any previous
// registration. Call before the registry is shared across goroutines.
func (r *Registry) Register(name string, p Pairing) {
	r.pairings[name] = p
}

// Load returns a driver for the named locale. Unknown names resolve to
// the default pairing; the miss is logged at warning level, never
// returned as an error.
func (r *Registry) Load(name string) *Driver {
	p := r.Pairing(name)
	return NewDriver(p.Items, p.Dates)
}

// Pairing returns the recognizer pairing for a locale name, applying the
// same fallback behavior as Load.
func (r *Registry) Pairing(name string) Pairing {
	p, ok := r.pairings[name]
	if !ok {
		slog.Warn("unknown locale, using default", "locale", name, "default", r.fallback)
		p = r.pairings[r.fallback]
	}
	return p
}

// Names returns the registered locale names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pairings))
	for name := range r.pairings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

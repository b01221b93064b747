// Package types provides shared types for sitemap entries used across
// the registry, generator, and scanner packages.
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/sitemap/internal/errors"
)

// ChangeFreq hints how frequently a page is likely to change, per the
// sitemaps.org protocol. The zero value means "not set" and suppresses
// the <changefreq> element entirely.
type ChangeFreq int

const (
	ChangeFreqUnset ChangeFreq = iota
	ChangeFreqAlways
	ChangeFreqHourly
	ChangeFreqDaily
	ChangeFreqWeekly
	ChangeFreqMonthly
	ChangeFreqYearly
	ChangeFreqNever
)

// String returns the lowercase protocol value, or an empty string for
// ChangeFreqUnset.
func (f ChangeFreq) String() string {
	switch f {
	case ChangeFreqAlways:
		return "always"
	case ChangeFreqHourly:
		return "hourly"
	case ChangeFreqDaily:
		return "daily"
	case ChangeFreqWeekly:
		return "weekly"
	case ChangeFreqMonthly:
		return "monthly"
	case ChangeFreqYearly:
		return "yearly"
	case ChangeFreqNever:
		return "never"
	default:
		return ""
	}
}

// ParseChangeFreq parses a protocol string into a ChangeFreq. An empty
// string parses to ChangeFreqUnset.
func ParseChangeFreq(s string) (ChangeFreq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ChangeFreqUnset, nil
	case "always":
		return ChangeFreqAlways, nil
	case "hourly":
		return ChangeFreqHourly, nil
	case "daily":
		return ChangeFreqDaily, nil
	case "weekly":
		return ChangeFreqWeekly, nil
	case "monthly":
		return ChangeFreqMonthly, nil
	case "yearly":
		return ChangeFreqYearly, nil
	case "never":
		return ChangeFreqNever, nil
	default:
		return ChangeFreqUnset, errors.NewValidationError("changefreq", s,
			"must be one of always, hourly, daily, weekly, monthly, yearly, never")
	}
}

// Alternate is a single hreflang alternate link: a language/region code
// (or "x-default") paired with a fully qualified URL.
type Alternate struct {
	Hreflang string
	Href     string
}

// Entry is an immutable <url> entry in a sitemap. The location is
// required and validated at construction; all other fields are optional.
// Alternates preserve insertion order for deterministic XML output.
type Entry struct {
	loc        string
	lastMod    *time.Time
	changeFreq ChangeFreq
	priority   *float64
	alternates []Alternate
}

// Loc returns the fully qualified URL of the page.
func (e *Entry) Loc() string { return e.loc }

// LastMod returns the last modification time, or nil when not set. The
// returned pointer is to a copy; mutating it does not affect the entry.
func (e *Entry) LastMod() *time.Time {
	if e.lastMod == nil {
		return nil
	}
	t := *e.lastMod
	return &t
}

// ChangeFreq returns the change frequency hint.
func (e *Entry) ChangeFreq() ChangeFreq { return e.changeFreq }

// Priority returns the priority in [0.0, 1.0], or nil when not set. The
// returned pointer is to a copy; mutating it does not affect the entry.
func (e *Entry) Priority() *float64 {
	if e.priority == nil {
		return nil
	}
	p := *e.priority
	return &p
}

// Alternates returns a copy of the hreflang alternate links in insertion
// order. Mutating the returned slice does not affect the entry.
func (e *Entry) Alternates() []Alternate {
	if len(e.alternates) == 0 {
		return nil
	}
	out := make([]Alternate, len(e.alternates))
	copy(out, e.alternates)
	return out
}

// HasAlternates reports whether the entry carries any alternate links.
func (e *Entry) HasAlternates() bool { return len(e.alternates) > 0 }

// EntryBuilder constructs validated Entry values.
type EntryBuilder struct {
	loc        string
	lastMod    *time.Time
	changeFreq ChangeFreq
	priority   *float64
	alternates []Alternate
}

// NewEntry returns a builder for an entry at the given location.
func NewEntry(loc string) *EntryBuilder {
	return &EntryBuilder{loc: loc}
}

// LastMod sets the last modification time.
func (b *EntryBuilder) LastMod(t time.Time) *EntryBuilder {
	b.lastMod = &t
	return b
}

// ChangeFreq sets the change frequency hint.
func (b *EntryBuilder) ChangeFreq(f ChangeFreq) *EntryBuilder {
	b.changeFreq = f
	return b
}

// Priority sets the priority. Range is validated in Build.
func (b *EntryBuilder) Priority(p float64) *EntryBuilder {
	b.priority = &p
	return b
}

// Alternate adds an hreflang alternate link. Setting an hreflang that is
// already present replaces its URL but keeps its original position.
func (b *EntryBuilder) Alternate(hreflang, href string) *EntryBuilder {
	for i, alt := range b.alternates {
		if alt.Hreflang == hreflang {
			b.alternates[i].Href = href
			return b
		}
	}
	b.alternates = append(b.alternates, Alternate{Hreflang: hreflang, Href: href})
	return b
}

// Alternates replaces all alternate links, preserving the given order.
func (b *EntryBuilder) Alternates(alternates []Alternate) *EntryBuilder {
	b.alternates = b.alternates[:0]
	for _, alt := range alternates {
		b.Alternate(alt.Hreflang, alt.Href)
	}
	return b
}

// Build validates the builder state and returns the immutable entry.
// The location must be a non-blank absolute http(s) URL and the
// priority, when set, must lie in [0.0, 1.0].
func (b *EntryBuilder) Build() (*Entry, error) {
	if strings.TrimSpace(b.loc) == "" {
		return nil, errors.NewValidationError("loc", b.loc, "must not be blank")
	}
	if !strings.HasPrefix(b.loc, "http://") && !strings.HasPrefix(b.loc, "https://") {
		return nil, errors.NewValidationError("loc", b.loc, "must start with http:// or https://")
	}
	if b.priority != nil && (*b.priority < 0.0 || *b.priority > 1.0) {
		return nil, errors.NewValidationError("priority",
			strconv.FormatFloat(*b.priority, 'g', -1, 64),
			"must be between 0.0 and 1.0")
	}

	alternates := make([]Alternate, len(b.alternates))
	copy(alternates, b.alternates)

	return &Entry{
		loc:        b.loc,
		lastMod:    b.lastMod,
		changeFreq: b.changeFreq,
		priority:   b.priority,
		alternates: alternates,
	}, nil
}

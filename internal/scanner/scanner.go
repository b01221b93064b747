// Package scanner translates discovered routes into sitemap entries and
// registers them in bulk. It is the producer side of the registry: it
// resolves locales per route, expands one entry per locale with the full
// hreflang alternates map, applies configured defaults, and pushes the
// result through a single AddAll call.
package scanner

import (
	"context"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/locale"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/registry"
	"github.com/conneroisu/sitemap/internal/types"
)

// pathVarPattern detects path variables like {id} or {slug}. Routes with
// variables are skipped: their concrete URLs are unknown at scan time
// and must be registered programmatically.
var pathVarPattern = regexp.MustCompile(`\{[^}]+}`)

// RouteScanner scans a RouteSource and registers the resulting entries.
type RouteScanner struct {
	source   RouteSource
	registry *registry.URLRegistry
	cfg      config.SitemapConfig
	locales  *locale.Builder
	logger   logging.Logger

	scanned atomic.Bool
}

// New creates a RouteScanner.
func New(source RouteSource, reg *registry.URLRegistry, cfg config.SitemapConfig, logger logging.Logger) *RouteScanner {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RouteScanner{
		source:   source,
		registry: reg,
		cfg:      cfg,
		locales:  locale.New(cfg),
		logger:   logger.WithComponent("scanner"),
	}
}

// Scan reads the route source and registers all eligible routes. It is
// idempotent: only the first call performs work, later calls return nil
// immediately.
func (s *RouteScanner) Scan(ctx context.Context) error {
	if !s.scanned.CompareAndSwap(false, true) {
		s.logger.Debug(ctx, "route scan already performed, skipping")
		return nil
	}

	entries, err := s.collect(ctx)
	if err != nil {
		s.scanned.Store(false)
		return err
	}

	s.registry.AddAll(entries)
	s.logger.Info(ctx, "route scan complete", "urls", len(entries))
	return nil
}

// Rescan clears the registry and scans again, regardless of whether a
// scan already ran. Used when the route source changes at runtime.
func (s *RouteScanner) Rescan(ctx context.Context) error {
	entries, err := s.collect(ctx)
	if err != nil {
		return err
	}

	s.registry.Clear()
	s.registry.AddAll(entries)
	s.scanned.Store(true)
	s.logger.Info(ctx, "route rescan complete", "urls", len(entries))
	return nil
}

// Scanned reports whether a scan has completed.
func (s *RouteScanner) Scanned() bool {
	return s.scanned.Load()
}

// collect builds the entry list for all eligible routes.
func (s *RouteScanner) collect(ctx context.Context) ([]*types.Entry, error) {
	routes, err := s.source.Routes(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*types.Entry, 0, len(routes))
	for _, route := range routes {
		if route.Exclude {
			s.logger.Debug(ctx, "skipping excluded route", "path", route.Path)
			continue
		}
		if pathVarPattern.MatchString(route.Path) {
			s.logger.Warn(ctx, nil, "skipping route with path variables, register these URLs programmatically",
				"path", route.Path)
			continue
		}
		entries = append(entries, s.buildEntries(ctx, route)...)
	}
	return entries, nil
}

// buildEntries builds one entry per resolved locale for a route, each
// carrying the full alternates map; without locales a single plain entry
// is produced.
func (s *RouteScanner) buildEntries(ctx context.Context, route Route) []*types.Entry {
	priority := s.cfg.DefaultPriority
	if route.Priority != nil {
		priority = *route.Priority
	}
	changeFreq := s.resolveChangeFreq(ctx, route)
	lastMod := s.parseLastMod(ctx, route.LastMod)

	locales := s.locales.ResolveLocales(route.Locales)
	if len(locales) == 0 {
		entry, err := s.newEntry(s.locales.BuildURL(route.Path), priority, changeFreq, lastMod, nil)
		if err != nil {
			s.logger.Warn(ctx, err, "skipping invalid route", "path", route.Path)
			return nil
		}
		return []*types.Entry{entry}
	}

	alternates := s.locales.BuildAlternates(route.Path, locales)
	entries := make([]*types.Entry, 0, len(locales))
	for _, loc := range locales {
		entry, err := s.newEntry(s.locales.BuildLocalizedURL(route.Path, loc),
			priority, changeFreq, lastMod, alternates)
		if err != nil {
			s.logger.Warn(ctx, err, "skipping invalid route", "path", route.Path, "locale", loc)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *RouteScanner) newEntry(loc string, priority float64, freq types.ChangeFreq,
	lastMod *time.Time, alternates []types.Alternate) (*types.Entry, error) {
	builder := types.NewEntry(loc).Priority(priority).ChangeFreq(freq)
	if lastMod != nil {
		builder.LastMod(*lastMod)
	}
	if len(alternates) > 0 {
		builder.Alternates(alternates)
	}
	return builder.Build()
}

// resolveChangeFreq parses the route's changefreq, falling back to the
// configured default. Invalid values are non-fatal.
func (s *RouteScanner) resolveChangeFreq(ctx context.Context, route Route) types.ChangeFreq {
	if route.ChangeFreq != "" {
		freq, err := types.ParseChangeFreq(route.ChangeFreq)
		if err == nil {
			return freq
		}
		s.logger.Warn(ctx, err, "ignoring invalid changefreq", "path", route.Path)
	}
	freq, err := types.ParseChangeFreq(s.cfg.DefaultChangeFreq)
	if err != nil {
		return types.ChangeFreqUnset
	}
	return freq
}

// parseLastMod parses a lastmod string, accepting date-only and full
// date-time forms. Unparseable values are non-fatal: the route proceeds
// without a lastmod.
func (s *RouteScanner) parseLastMod(ctx context.Context, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	layout := "2006-01-02T15:04:05"
	if !strings.Contains(value, "T") {
		layout = "2006-01-02"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		s.logger.Warn(ctx, err, "ignoring unparseable lastmod", "value", value)
		return nil
	}
	return &t
}

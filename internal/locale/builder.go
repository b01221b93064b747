// Package locale resolves locales for hreflang generation and builds
// locale-qualified URLs from the configured base URL.
//
// Locale resolution follows a three-tier priority chain: an explicit
// per-route override wins, then the configured locale list, and when
// both are empty no locale handling applies. URL construction supports
// two strategies: a path prefix (https://example.com/en/about) or a
// query parameter (https://example.com/about?lang=en).
package locale

import (
	"strings"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/sitemap"
	"github.com/conneroisu/sitemap/internal/types"
)

// XDefault is the sentinel hreflang code for the alternate used when no
// other locale matches a visitor's preference.
const XDefault = "x-default"

// Builder constructs locale-aware URLs over a read-only configuration.
// Safe for concurrent use.
type Builder struct {
	cfg config.SitemapConfig
}

// New creates a Builder for the given configuration.
func New(cfg config.SitemapConfig) *Builder {
	return &Builder{cfg: cfg}
}

// ResolveLocales applies the three-tier priority chain: a non-empty
// override is used verbatim, then the configured locale list, and
// finally an empty result meaning no locale handling for this route.
func (b *Builder) ResolveLocales(override []string) []string {
	if len(override) > 0 {
		return override
	}
	if len(b.cfg.Locales) > 0 {
		return b.cfg.Locales
	}
	return nil
}

// BuildURL builds the non-localized URL for a path: base URL plus the
// path with a guaranteed single leading slash. An empty path becomes "/".
func (b *Builder) BuildURL(path string) string {
	return b.baseURL() + ensureLeadingSlash(path)
}

// BuildLocalizedURL builds the URL for a path and locale using the
// configured strategy. When OmitDefaultLocaleInURL is set and the locale
// equals the default locale, the locale marker is omitted entirely.
func (b *Builder) BuildLocalizedURL(path, locale string) string {
	baseURL := b.baseURL()
	normalPath := ensureLeadingSlash(path)

	if b.cfg.OmitDefaultLocaleInURL && locale != "" && locale == b.cfg.DefaultLocale {
		return baseURL + normalPath
	}

	switch b.cfg.LocaleURLPattern {
	case config.PatternQueryParam:
		fullURL := baseURL + normalPath
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}
		return fullURL + separator + b.cfg.LocaleQueryParamName + "=" + locale
	default:
		return baseURL + "/" + locale + normalPath
	}
}

// BuildAlternates builds the ordered hreflang alternate list for a path:
// one entry per locale in input order (first occurrence wins on
// duplicates) plus a trailing x-default entry. The x-default points to
// the configured default locale when it appears in the list, otherwise
// to the first locale. Empty input yields nil.
func (b *Builder) BuildAlternates(path string, locales []string) []types.Alternate {
	if len(locales) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(locales))
	alternates := make([]types.Alternate, 0, len(locales)+1)
	for _, locale := range locales {
		if seen[locale] {
			continue
		}
		seen[locale] = true
		alternates = append(alternates, types.Alternate{
			Hreflang: locale,
			Href:     b.BuildLocalizedURL(path, locale),
		})
	}

	xDefaultLocale := locales[0]
	if b.cfg.DefaultLocale != "" && seen[b.cfg.DefaultLocale] {
		xDefaultLocale = b.cfg.DefaultLocale
	}
	alternates = append(alternates, types.Alternate{
		Hreflang: XDefault,
		Href:     b.BuildLocalizedURL(path, xDefaultLocale),
	})

	return alternates
}

func (b *Builder) baseURL() string {
	return sitemap.StripTrailingSlash(b.cfg.BaseURL)
}

func ensureLeadingSlash(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

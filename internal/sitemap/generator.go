// Package sitemap generates sitemap XML compliant with the sitemaps.org
// protocol: single sitemap documents (<urlset>), sitemap index documents
// (<sitemapindex>), hreflang alternate links, and protocol entity
// escaping. Generation is pure string building with no reflection or
// DOM, keeping output byte-stable for caching.
package sitemap

import (
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/types"
)

const (
	xmlHeader      = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	urlsetOpen     = `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`
	xhtmlNamespace = "\n        xmlns:xhtml=\"http://www.w3.org/1999/xhtml\""
	indexOpen      = "<sitemapindex xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n"
	indexClose     = "</sitemapindex>\n"
)

// Generator renders sitemap XML documents. It is stateless apart from
// the read-only configuration and safe for concurrent use.
type Generator struct {
	cfg config.SitemapConfig
}

// New creates a Generator over the given configuration. The base URL is
// used for sitemap index references.
func New(cfg config.SitemapConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Sitemap renders a complete sitemap document for the given entries, in
// input order. When any entry carries alternates, the xhtml namespace is
// declared on the <urlset> element.
//
// Entry values must be raw, unescaped text. Escaping is applied exactly
// once here; passing pre-escaped input produces double-escaped output.
func (g *Generator) Sitemap(entries []*types.Entry) string {
	hasAlternates := false
	for _, entry := range entries {
		if entry.HasAlternates() {
			hasAlternates = true
			break
		}
	}

	var sb strings.Builder
	sb.Grow(len(entries)*256 + 128)
	sb.WriteString(xmlHeader)
	sb.WriteString(urlsetOpen)
	if hasAlternates {
		sb.WriteString(xhtmlNamespace)
	}
	sb.WriteString(">\n")

	for _, entry := range entries {
		appendEntry(&sb, entry)
	}

	sb.WriteString("</urlset>\n")
	return sb.String()
}

// SitemapIndex renders a sitemap index document with one reference per
// shard, numbered 1..count, pointing at {base}/sitemap-{n}.xml.
func (g *Generator) SitemapIndex(count int) string {
	baseURL := StripTrailingSlash(g.cfg.BaseURL)

	var sb strings.Builder
	sb.Grow(count*128 + 128)
	sb.WriteString(xmlHeader)
	sb.WriteString(indexOpen)

	for i := 1; i <= count; i++ {
		sb.WriteString("  <sitemap>\n")
		sb.WriteString("    <loc>")
		sb.WriteString(Escape(fmt.Sprintf("%s/sitemap-%d.xml", baseURL, i)))
		sb.WriteString("</loc>\n")
		sb.WriteString("  </sitemap>\n")
	}

	sb.WriteString(indexClose)
	return sb.String()
}

func appendEntry(sb *strings.Builder, entry *types.Entry) {
	sb.WriteString("  <url>\n")
	sb.WriteString("    <loc>")
	sb.WriteString(Escape(entry.Loc()))
	sb.WriteString("</loc>\n")

	for _, alt := range entry.Alternates() {
		sb.WriteString("    <xhtml:link rel=\"alternate\" hreflang=\"")
		sb.WriteString(Escape(alt.Hreflang))
		sb.WriteString("\" href=\"")
		sb.WriteString(Escape(alt.Href))
		sb.WriteString("\"/>\n")
	}

	if lastMod := entry.LastMod(); lastMod != nil {
		sb.WriteString("    <lastmod>")
		sb.WriteString(FormatLastMod(*lastMod))
		sb.WriteString("</lastmod>\n")
	}

	if freq := entry.ChangeFreq(); freq != types.ChangeFreqUnset {
		sb.WriteString("    <changefreq>")
		sb.WriteString(freq.String())
		sb.WriteString("</changefreq>\n")
	}

	if priority := entry.Priority(); priority != nil {
		sb.WriteString("    <priority>")
		sb.WriteString(fmt.Sprintf("%.1f", *priority))
		sb.WriteString("</priority>\n")
	}

	sb.WriteString("  </url>\n")
}

// FormatLastMod formats a last-modified time for XML output. Exact
// midnight emits the date-only form; anything else emits full date-time
// with second precision and no timezone suffix.
func FormatLastMod(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}

// Escape escapes XML entities per the sitemap protocol in a single
// left-to-right pass: & ' " > < become their entity forms. Already
// generated entities are never re-matched. An empty input yields an
// empty string.
//
// Iteration is byte-wise so only the five protocol characters are ever
// rewritten; all other bytes, valid UTF-8 or not, pass through verbatim.
func Escape(value string) string {
	if !strings.ContainsAny(value, `&'"<>`) {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value) + 16)
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '&':
			sb.WriteString("&amp;")
		case '\'':
			sb.WriteString("&apos;")
		case '"':
			sb.WriteString("&quot;")
		case '>':
			sb.WriteString("&gt;")
		case '<':
			sb.WriteString("&lt;")
		default:
			sb.WriteByte(value[i])
		}
	}
	return sb.String()
}

// StripTrailingSlash removes a single trailing slash from a URL.
func StripTrailingSlash(url string) string {
	return strings.TrimSuffix(url, "/")
}

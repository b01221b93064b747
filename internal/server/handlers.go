package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/conneroisu/sitemap/internal/config"
)

const contentTypeXML = "application/xml; charset=utf-8"

// sitemapPagePattern matches shard paths like /sitemap-3.xml.
var sitemapPagePattern = regexp.MustCompile(`^/sitemap-(\d+)\.xml$`)

// handleSitemap serves the primary listing: the sitemap index when the
// registry requires sharding, the full sitemap otherwise.
func (s *SitemapServer) handleSitemap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ensureScanned(r)

	w.Header().Set("Content-Type", contentTypeXML)
	if s.registry.RequiresIndex() {
		_, _ = w.Write([]byte(s.registry.SitemapIndex()))
		return
	}
	_, _ = w.Write([]byte(s.registry.Sitemap()))
}

// handleSitemapPage serves a single shard. Pages are 1-indexed; anything
// out of range is a 404, as is any path that is not a shard reference.
func (s *SitemapServer) handleSitemapPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m := sitemapPagePattern.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.NotFound(w, r)
		return
	}
	s.ensureScanned(r)

	page, err := strconv.Atoi(m[1])
	if err != nil || page < 1 || page > s.registry.SitemapCount() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentTypeXML)
	_, _ = w.Write([]byte(s.registry.SitemapPage(page)))
}

// handleHealth reports server health with basic registry stats.
func (s *SitemapServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"urls":    s.registry.Size(),
		"scanned": s.scanner.Scanned(),
	})
}

// ensureScanned triggers the route scan on first request in lazy mode.
func (s *SitemapServer) ensureScanned(r *http.Request) {
	if s.cfg.Sitemap.Initialization != config.InitLazy || s.scanner.Scanned() {
		return
	}
	if err := s.scanner.Scan(r.Context()); err != nil {
		s.logger.Error(r.Context(), err, "lazy route scan failed")
	}
}

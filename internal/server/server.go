// Package server exposes the sitemap over HTTP: the primary listing at
// /sitemap.xml (switching to a sitemap index when the registry exceeds
// the per-file limit), the numbered shard documents, and a health
// endpoint. In lazy initialization mode the first sitemap request
// triggers the route scan.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/registry"
	"github.com/conneroisu/sitemap/internal/scanner"
	"github.com/conneroisu/sitemap/internal/watcher"
)

// SitemapServer serves the registry's documents with the sitemap media
// type and shuts down gracefully on context cancellation.
type SitemapServer struct {
	cfg      *config.Config
	registry *registry.URLRegistry
	scanner  *scanner.RouteScanner
	logger   logging.Logger

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	watcher      *watcher.FileWatcher
	shutdownOnce sync.Once
}

// New creates a SitemapServer over an existing registry and scanner.
func New(cfg *config.Config, reg *registry.URLRegistry, sc *scanner.RouteScanner, logger logging.Logger) *SitemapServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SitemapServer{
		cfg:      cfg,
		registry: reg,
		scanner:  sc,
		logger:   logger.WithComponent("server"),
	}
}

// WatchRoutes starts a debounced watch on the routes file, triggering a
// rescan on change. Call before Start.
func (s *SitemapServer) WatchRoutes(ctx context.Context) error {
	fw, err := watcher.New(s.cfg.Sitemap.RoutesFile, 300*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to watch routes file: %w", err)
	}
	s.watcher = fw

	fw.Start(ctx, func() {
		s.logger.Info(ctx, "routes file changed, rescanning",
			"file", s.cfg.Sitemap.RoutesFile)
		if err := s.scanner.Rescan(ctx); err != nil {
			s.logger.Error(ctx, err, "route rescan failed")
		}
	})
	return nil
}

// Start runs the HTTP server until the context is cancelled. In eager
// mode the route scan runs before the listener accepts traffic.
func (s *SitemapServer) Start(ctx context.Context) error {
	if s.cfg.Sitemap.Initialization == config.InitEager {
		if err := s.scanner.Scan(ctx); err != nil {
			return fmt.Errorf("initial route scan failed: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleSitemapPage)

	addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprintf("%d", s.cfg.Server.Port))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.serverMutex.Lock()
	s.httpServer = httpServer
	s.serverMutex.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "sitemap server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the server gracefully, waiting for in-flight requests.
func (s *SitemapServer) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.watcher != nil {
			s.watcher.Close()
		}

		s.serverMutex.RLock()
		httpServer := s.httpServer
		s.serverMutex.RUnlock()
		if httpServer == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = httpServer.Shutdown(shutdownCtx)
	})
	return err
}

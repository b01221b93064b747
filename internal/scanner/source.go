package scanner

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Route describes one candidate path for sitemap registration, with
// optional per-route overrides of the configured defaults.
type Route struct {
	Path       string   `yaml:"path"`
	Priority   *float64 `yaml:"priority,omitempty"`
	ChangeFreq string   `yaml:"changefreq,omitempty"`
	LastMod    string   `yaml:"lastmod,omitempty"`
	Locales    []string `yaml:"locales,omitempty"`
	Exclude    bool     `yaml:"exclude,omitempty"`
}

// RouteSource produces the routes to register. The scanner makes no
// assumption about where routes come from; anything that can enumerate
// (path, overrides) pairs can feed the registry.
type RouteSource interface {
	Routes(ctx context.Context) ([]Route, error)
}

// FileSource reads routes from a YAML file:
//
//	routes:
//	  - path: /about
//	    priority: 0.8
//	    changefreq: weekly
//	  - path: /admin
//	    exclude: true
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given YAML file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Routes implements RouteSource.
func (s *FileSource) Routes(_ context.Context) ([]Route, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	var file struct {
		Routes []Route `yaml:"routes"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse routes file %s: %w", s.path, err)
	}
	return file.Routes, nil
}

// Path returns the file path this source reads from.
func (s *FileSource) Path() string { return s.path }

// StaticSource serves a fixed route list. Useful for programmatic
// registration and in tests.
type StaticSource []Route

// Routes implements RouteSource.
func (s StaticSource) Routes(_ context.Context) ([]Route, error) {
	return s, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/registry"
	"github.com/conneroisu/sitemap/internal/scanner"
	"github.com/conneroisu/sitemap/internal/sitemap"
)

func filledRegistry(t *testing.T, cfg config.SitemapConfig, paths int) *registry.URLRegistry {
	t.Helper()

	var routes scanner.StaticSource
	for i := 0; i < paths; i++ {
		routes = append(routes, scanner.Route{Path: fmt.Sprintf("/page-%d", i)})
	}

	reg := registry.New(cfg, sitemap.New(cfg), nil)
	sc := scanner.New(routes, reg, cfg, nil)
	require.NoError(t, sc.Scan(context.Background()))
	return reg
}

func TestWriteSitemapFiles_SingleDocument(t *testing.T) {
	cfg := config.SitemapConfig{
		BaseURL:           "https://example.com",
		MaxURLsPerSitemap: 50000,
		DefaultPriority:   0.5,
	}
	reg := filledRegistry(t, cfg, 3)
	dir := t.TempDir()

	files, err := writeSitemapFiles(reg, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "sitemap.xml")}, files)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "<urlset")
	assert.Contains(t, string(data), "<loc>https://example.com/page-0</loc>")
}

func TestWriteSitemapFiles_Sharded(t *testing.T) {
	cfg := config.SitemapConfig{
		BaseURL:           "https://example.com",
		MaxURLsPerSitemap: 2,
		DefaultPriority:   0.5,
	}
	reg := filledRegistry(t, cfg, 5)
	dir := t.TempDir()

	files, err := writeSitemapFiles(reg, dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	index, err := os.ReadFile(filepath.Join(dir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<sitemapindex")
	assert.Contains(t, string(index), "<loc>https://example.com/sitemap-3.xml</loc>")

	last, err := os.ReadFile(filepath.Join(dir, "sitemap-3.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(last), "<loc>https://example.com/page-4</loc>")
	assert.NotContains(t, string(last), "page-0")
}

func TestInitConfig_EnvOnlyConfiguration(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SITEMAP_SITEMAP_BASE_URL", "https://env.example.com")
	t.Setenv("SITEMAP_SITEMAP_MAX_URLS_PER_SITEMAP", "100")
	t.Setenv("SITEMAP_SERVER_PORT", "9090")

	// No config file anywhere; env vars must carry the configuration
	initConfig()

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Sitemap.BaseURL)
	assert.Equal(t, 100, cfg.Sitemap.MaxURLsPerSitemap)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitConfig_EnvOnlyDefaultsStillApply(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SITEMAP_SITEMAP_BASE_URL", "https://env.example.com")

	initConfig()

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.MaxURLsProtocolLimit, cfg.Sitemap.MaxURLsPerSitemap)
	assert.Equal(t, 0.5, cfg.Sitemap.DefaultPriority)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("8080"))
	assert.NoError(t, validatePort("1"))
	assert.NoError(t, validatePort("65535"))
	assert.Error(t, validatePort("0"))
	assert.Error(t, validatePort("65536"))
	assert.Error(t, validatePort("abc"))
}

func TestServeCmd_RejectsInvalidPortFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)

	assert.Error(t, flag.Value.Set("70000"))
	assert.NoError(t, flag.Value.Set("3000"))
}

func TestWriteSitemapFiles_CreatesOutputDir(t *testing.T) {
	cfg := config.SitemapConfig{
		BaseURL:           "https://example.com",
		MaxURLsPerSitemap: 50000,
		DefaultPriority:   0.5,
	}
	reg := filledRegistry(t, cfg, 1)
	dir := filepath.Join(t.TempDir(), "public", "nested")

	files, err := writeSitemapFiles(reg, dir)
	require.NoError(t, err)
	assert.FileExists(t, files[0])
}

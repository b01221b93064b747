// Package config provides configuration management for the sitemap
// library using Viper for flexible configuration loading from files,
// environment variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the SITEMAP_ prefix. It manages server settings, the
// sitemap generation options (base URL, sharding limit, defaults), and
// the locale handling options used for hreflang alternate generation.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Locale URL construction strategies.
const (
	PatternPathPrefix = "path_prefix"
	PatternQueryParam = "query_param"
)

// Initialization modes for the route scan.
const (
	InitEager = "eager"
	InitLazy  = "lazy"
)

// MaxURLsProtocolLimit is the per-file ceiling defined by the sitemaps.org
// protocol.
const MaxURLsProtocolLimit = 50000

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Sitemap SitemapConfig `yaml:"sitemap" mapstructure:"sitemap"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// SitemapConfig holds all options consumed by the registry, generator,
// locale builder, and scanner.
type SitemapConfig struct {
	// BaseURL is the absolute site root, e.g. "https://www.example.com".
	// Required. A trailing slash is stripped before URL construction.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// MaxURLsPerSitemap caps entries per sitemap file. When the registry
	// exceeds it, a sitemap index referencing shard files is served.
	MaxURLsPerSitemap int `yaml:"max_urls_per_sitemap" mapstructure:"max_urls_per_sitemap"`
	// DefaultPriority applies to routes without an explicit priority.
	DefaultPriority float64 `yaml:"default_priority" mapstructure:"default_priority"`
	// DefaultChangeFreq applies to routes without an explicit changefreq.
	// Empty means the <changefreq> element is omitted.
	DefaultChangeFreq string `yaml:"default_changefreq" mapstructure:"default_changefreq"`
	// Locales is the configured locale list for hreflang generation.
	// Empty disables locale handling unless a route overrides it.
	Locales []string `yaml:"locales" mapstructure:"locales"`
	// LocaleURLPattern is path_prefix or query_param.
	LocaleURLPattern string `yaml:"locale_url_pattern" mapstructure:"locale_url_pattern"`
	// LocaleQueryParamName is the parameter used by query_param URLs.
	LocaleQueryParamName string `yaml:"locale_query_param_name" mapstructure:"locale_query_param_name"`
	// DefaultLocale, when set, selects the x-default alternate and
	// (with OmitDefaultLocaleInURL) gets locale-free URLs.
	DefaultLocale string `yaml:"default_locale" mapstructure:"default_locale"`
	// OmitDefaultLocaleInURL drops the locale marker for DefaultLocale.
	OmitDefaultLocaleInURL bool `yaml:"omit_default_locale_in_url" mapstructure:"omit_default_locale_in_url"`
	// Initialization is eager (scan at startup) or lazy (scan on the
	// first sitemap request).
	Initialization string `yaml:"initialization" mapstructure:"initialization"`
	// RoutesFile is the YAML file describing routes to register.
	RoutesFile string `yaml:"routes_file" mapstructure:"routes_file"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RegisterDefaults registers every known configuration key with viper.
// viper only resolves environment variables for keys it knows about, so
// without this env-only settings would never reach Unmarshal.
func RegisterDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("sitemap.base_url", "")
	viper.SetDefault("sitemap.max_urls_per_sitemap", MaxURLsProtocolLimit)
	viper.SetDefault("sitemap.default_priority", 0.5)
	viper.SetDefault("sitemap.default_changefreq", "")
	viper.SetDefault("sitemap.locales", []string{})
	viper.SetDefault("sitemap.locale_url_pattern", PatternPathPrefix)
	viper.SetDefault("sitemap.locale_query_param_name", "lang")
	viper.SetDefault("sitemap.default_locale", "")
	viper.SetDefault("sitemap.omit_default_locale_in_url", false)
	viper.SetDefault("sitemap.initialization", InitEager)
	viper.SetDefault("sitemap.routes_file", "routes.yaml")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// Load builds the configuration from viper's current state, applies
// defaults, and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slice values set via viper (workaround for viper slice handling)
	if viper.IsSet("sitemap.locales") && len(config.Sitemap.Locales) == 0 {
		locales := viper.GetStringSlice("sitemap.locales")
		if len(locales) > 0 {
			config.Sitemap.Locales = locales
		}
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in defaults for values not set by any source.
func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}

	if config.Sitemap.MaxURLsPerSitemap == 0 {
		config.Sitemap.MaxURLsPerSitemap = MaxURLsProtocolLimit
	}
	if !viper.IsSet("sitemap.default_priority") && config.Sitemap.DefaultPriority == 0 {
		config.Sitemap.DefaultPriority = 0.5
	}
	if config.Sitemap.LocaleURLPattern == "" {
		config.Sitemap.LocaleURLPattern = PatternPathPrefix
	}
	if config.Sitemap.LocaleQueryParamName == "" {
		config.Sitemap.LocaleQueryParamName = "lang"
	}
	if config.Sitemap.Initialization == "" {
		config.Sitemap.Initialization = InitEager
	}
	if config.Sitemap.RoutesFile == "" {
		config.Sitemap.RoutesFile = "routes.yaml"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// validateConfig validates configuration values for correctness.
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateSitemapConfig(&config.Sitemap); err != nil {
		return fmt.Errorf("sitemap config: %w", err)
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}
	return nil
}

func validateSitemapConfig(config *SitemapConfig) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https, got %q", config.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base_url must be absolute, got %q", config.BaseURL)
	}

	if config.MaxURLsPerSitemap < 1 {
		return fmt.Errorf("max_urls_per_sitemap must be at least 1, got %d", config.MaxURLsPerSitemap)
	}
	if config.MaxURLsPerSitemap > MaxURLsProtocolLimit {
		return fmt.Errorf("max_urls_per_sitemap exceeds the protocol limit of %d", MaxURLsProtocolLimit)
	}

	if config.DefaultPriority < 0.0 || config.DefaultPriority > 1.0 {
		return fmt.Errorf("default_priority must be between 0.0 and 1.0, got %v", config.DefaultPriority)
	}

	if !validChangeFreq(config.DefaultChangeFreq) {
		return fmt.Errorf("default_changefreq %q is not a valid change frequency", config.DefaultChangeFreq)
	}

	switch config.LocaleURLPattern {
	case PatternPathPrefix, PatternQueryParam:
	default:
		return fmt.Errorf("locale_url_pattern must be %s or %s, got %q",
			PatternPathPrefix, PatternQueryParam, config.LocaleURLPattern)
	}

	switch config.Initialization {
	case InitEager, InitLazy:
	default:
		return fmt.Errorf("initialization must be %s or %s, got %q",
			InitEager, InitLazy, config.Initialization)
	}

	for _, locale := range config.Locales {
		if _, err := language.Parse(locale); err != nil {
			return fmt.Errorf("locale %q is not a valid language tag: %w", locale, err)
		}
	}
	if config.DefaultLocale != "" {
		if _, err := language.Parse(config.DefaultLocale); err != nil {
			return fmt.Errorf("default_locale %q is not a valid language tag: %w", config.DefaultLocale, err)
		}
	}

	return nil
}

func validChangeFreq(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always", "hourly", "daily", "weekly", "monthly", "yearly", "never":
		return true
	default:
		return false
	}
}

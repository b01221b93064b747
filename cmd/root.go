package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/sitemap/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate and serve sitemaps.org-compliant sitemaps",
	Long: `sitemap maintains an in-memory registry of URL entries, renders them
as sitemaps.org-compliant XML, and serves the result over HTTP.

Key Features:
  • Route discovery from a YAML routes file
  • Automatic sitemap index splitting past the per-file URL limit
  • hreflang alternate links for multilingual sites
  • Cached XML generation with safe concurrent invalidation
  • Hot rescan of the routes file during serve

Quick Start:
  sitemap serve                   Serve /sitemap.xml over HTTP
  sitemap generate                Write sitemap files to disk
  sitemap list                    List registered URLs

Minimal configuration (.sitemap.yml):
  sitemap:
    base_url: https://www.example.com`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .sitemap.yml, can also use SITEMAP_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes viper with file, environment, and flag sources.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SITEMAP_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".sitemap")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("SITEMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.RegisterDefaults()

	// Missing config file is fine, env vars and flags may carry everything
	_ = viper.ReadInConfig()
}

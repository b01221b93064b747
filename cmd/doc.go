// Package cmd provides the command-line interface for the sitemap
// toolkit.
//
// # Available Commands
//
//   - serve: Serve /sitemap.xml (and shards) over HTTP
//   - generate: Write sitemap files to disk
//   - list: List the URLs that would appear in the sitemap
//   - version: Show build version information
//
// # Configuration
//
// Configuration is loaded with the following precedence (highest to
// lowest):
//
//  1. Command-line flags (--config, --port, etc.)
//  2. SITEMAP_CONFIG_FILE environment variable (custom config file path)
//  3. Individual environment variables (SITEMAP_SITEMAP_BASE_URL, etc.)
//  4. Configuration file (.sitemap.yml in the working directory)
//
// # Command Examples
//
//	// Serve the sitemap, rescanning when routes.yaml changes
//	sitemap serve --watch
//
//	// Write sitemap files into public/
//	sitemap generate -o public/
//
//	// List registered URLs as JSON
//	sitemap list --format json
package cmd

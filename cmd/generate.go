package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/registry"
	"github.com/spf13/cobra"
)

var generateOutputDir string

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g"},
	Short:   "Write sitemap files to disk",
	Long: `Scan the routes file and write the resulting sitemap XML to disk.

When the registry exceeds max_urls_per_sitemap, sitemap.xml holds the
sitemap index and each shard is written as sitemap-{n}.xml. Otherwise a
single sitemap.xml is written.

Examples:
  sitemap generate                 # Write into the current directory
  sitemap generate -o public/      # Write into public/`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutputDir, "output", "o", ".", "Output directory")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	reg, sc := buildPipeline(cfg, logger)

	ctx := context.Background()
	if err := sc.Scan(ctx); err != nil {
		return fmt.Errorf("route scan failed: %w", err)
	}

	files, err := writeSitemapFiles(reg, generateOutputDir)
	if err != nil {
		return err
	}

	logger.Info(ctx, "sitemap generation complete",
		"urls", reg.Size(), "files", len(files), "dir", generateOutputDir)
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

// writeSitemapFiles writes the sitemap (or index plus shards) into dir
// and returns the written file paths.
func writeSitemapFiles(reg *registry.URLRegistry, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if !reg.RequiresIndex() {
		path := filepath.Join(dir, "sitemap.xml")
		if err := os.WriteFile(path, []byte(reg.Sitemap()), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		return []string{path}, nil
	}

	files := make([]string, 0, reg.SitemapCount()+1)

	indexPath := filepath.Join(dir, "sitemap.xml")
	if err := os.WriteFile(indexPath, []byte(reg.SitemapIndex()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	files = append(files, indexPath)

	for page := 1; page <= reg.SitemapCount(); page++ {
		path := filepath.Join(dir, fmt.Sprintf("sitemap-%d.xml", page))
		if err := os.WriteFile(path, []byte(reg.SitemapPage(page)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}

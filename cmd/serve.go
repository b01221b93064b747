package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/registry"
	"github.com/conneroisu/sitemap/internal/scanner"
	"github.com/conneroisu/sitemap/internal/server"
	"github.com/conneroisu/sitemap/internal/sitemap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the sitemap over HTTP",
	Long: `Start the HTTP server exposing the sitemap endpoints.

Endpoints:
  GET /sitemap.xml      The sitemap, or a sitemap index when sharded
  GET /sitemap-{n}.xml  Individual sitemap shards (1-indexed)
  GET /health           Health and registry stats

Examples:
  sitemap serve                    # Serve on the configured host/port
  sitemap serve --port 3000        # Override the port
  sitemap serve --watch            # Rescan when the routes file changes`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().BoolP("watch", "w", false, "Rescan when the routes file changes")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))

	addFlagValidation(serveCmd, "port", validatePort)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	reg, sc := buildPipeline(cfg, logger)
	srv := server.New(cfg, reg, sc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if err := srv.WatchRoutes(ctx); err != nil {
			return err
		}
	}

	return srv.Start(ctx)
}

// buildPipeline wires the generator, registry, and scanner from config.
func buildPipeline(cfg *config.Config, logger logging.Logger) (*registry.URLRegistry, *scanner.RouteScanner) {
	gen := sitemap.New(cfg.Sitemap)
	reg := registry.New(cfg.Sitemap, gen, logger)
	source := scanner.NewFileSource(cfg.Sitemap.RoutesFile)
	sc := scanner.New(source, reg, cfg.Sitemap, logger)
	return reg, sc
}

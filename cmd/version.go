package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/sitemap/internal/version"
	"github.com/spf13/cobra"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information including the semantic version, git
commit, build timestamp, Go version, and target platform.

Examples:
  sitemap version                # Single-line summary
  sitemap version --format json  # Output as JSON`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()

	switch versionFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "text":
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}

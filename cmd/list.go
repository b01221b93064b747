package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/sitemap"
	"github.com/conneroisu/sitemap/internal/types"
	"github.com/spf13/cobra"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all registered sitemap URLs",
	Long: `Scan the routes file and list the URLs that would appear in the
generated sitemap, with their metadata.

Examples:
  sitemap list                    # Table output
  sitemap list -f json            # JSON output`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reg, sc := buildPipeline(cfg, logging.NewNopLogger())
	if err := sc.Scan(context.Background()); err != nil {
		return fmt.Errorf("route scan failed: %w", err)
	}

	entries := reg.Entries()
	switch listFormat {
	case "json":
		return listJSON(cmd, entries)
	case "table":
		return listTable(cmd, entries)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json)", listFormat)
	}
}

func listTable(cmd *cobra.Command, entries []*types.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOC\tPRIORITY\tCHANGEFREQ\tLASTMOD\tALTERNATES")
	for _, entry := range entries {
		priority := "-"
		if p := entry.Priority(); p != nil {
			priority = fmt.Sprintf("%.1f", *p)
		}
		changeFreq := entry.ChangeFreq().String()
		if changeFreq == "" {
			changeFreq = "-"
		}
		lastMod := "-"
		if t := entry.LastMod(); t != nil {
			lastMod = sitemap.FormatLastMod(*t)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			entry.Loc(), priority, changeFreq, lastMod, len(entry.Alternates()))
	}
	return w.Flush()
}

func listJSON(cmd *cobra.Command, entries []*types.Entry) error {
	type alternateJSON struct {
		Hreflang string `json:"hreflang"`
		Href     string `json:"href"`
	}
	type entryJSON struct {
		Loc        string          `json:"loc"`
		Priority   *float64        `json:"priority,omitempty"`
		ChangeFreq string          `json:"changefreq,omitempty"`
		LastMod    string          `json:"lastmod,omitempty"`
		Alternates []alternateJSON `json:"alternates,omitempty"`
	}

	out := make([]entryJSON, 0, len(entries))
	for _, entry := range entries {
		item := entryJSON{
			Loc:        entry.Loc(),
			Priority:   entry.Priority(),
			ChangeFreq: entry.ChangeFreq().String(),
		}
		if t := entry.LastMod(); t != nil {
			item.LastMod = sitemap.FormatLastMod(*t)
		}
		for _, alt := range entry.Alternates() {
			item.Alternates = append(item.Alternates, alternateJSON(alt))
		}
		out = append(out, item)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

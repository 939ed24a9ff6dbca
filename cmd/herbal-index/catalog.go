// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/herbal-index/internal/catalog"
	"github.com/pdiddy/herbal-index/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the disease catalog (ingest, search, show, export)",
	Long: `Catalog manages a local SQLite collection of extracted disease records.
Use subcommands to ingest documents, search them, show one disease, or
export the collection.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest <document>...",
	Short: "Extract documents and store their diseases in the catalog",
	Long: `Ingest loads and extracts each document, then stores its diseases in
the catalog. A document whose text is unchanged since the last ingest is
skipped; a changed document replaces its earlier diseases.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	cfg, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	var summary catalog.IngestSummary
	var errs []error
	for _, location := range args {
		doc, cat, err := loadAndExtract(cmd.Context(), cfg, location)
		if err != nil {
			fmt.Fprintf(out, "failed   %s: %v\n", location, err)
			summary.Add(catalog.StatusFailed)
			errs = append(errs, err)
			continue
		}
		status, err := store.Ingest(cmd.Context(), doc, cat, out)
		summary.Add(status)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", location, err))
		}
	}

	fmt.Fprintf(out, "\n%d indexed, %d updated, %d skipped, %d failed\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed ingest: %w", summary.Failed, errors.Join(errs...))
	}
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search diseases by name, symptoms, or herb",
	Long: `Search matches the query against disease names and symptoms, ignoring
case and accents. --herb keeps diseases with a matching herb name or native
name. With no query and no filters every disease is listed.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	_, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	results, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []catalog.DiseaseSummary, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []catalog.DiseaseSummary{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-50s  %s\n", "ID", "Disease", "Herbs")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, r := range results {
		fmt.Fprintf(w, "%-24s  %-50s  %d\n", truncate(r.ID, 24), truncate(r.Name, 50), r.HerbCount)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one disease with its herbs and preparations",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	_, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return yaml.NewEncoder(w).Encode(entry)
	}
	printEntry(w, entry)
	return nil
}

func printEntry(w io.Writer, e catalog.Entry) {
	fmt.Fprintf(w, "%s\n", e.Name)
	fmt.Fprintf(w, "  id:        %s\n", e.ID)
	fmt.Fprintf(w, "  document:  %s\n", e.DocumentID)
	fmt.Fprintf(w, "  symptoms:  %s\n", e.SymptomsAndSigns)
	if len(e.Herbs) == 0 {
		fmt.Fprintln(w, "\n  No herbs listed.")
		return
	}
	for _, h := range e.Herbs {
		fmt.Fprintf(w, "\n  %s\n", h.Name)
		for _, label := range sortedLabels(h.NativeNames) {
			fmt.Fprintf(w, "    %s: %s\n", label, h.NativeNames[label])
		}
		if h.Preparation != "" {
			fmt.Fprintf(w, "    Preparation: %s\n", h.Preparation)
		}
	}
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML, JSON, or XLSX",
	Long: `Export writes the full catalog (or a filtered subset) to export.yaml,
export.json, or export.xlsx in the catalog directory. The XLSX workbook has
one row per herb. Supports the same filter flags as search.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch catalog.ExportFormat(format) {
	case catalog.ExportYAML, catalog.ExportJSON, catalog.ExportXLSX:
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json, or xlsx", format)
	}

	_, store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(cmd.Context(), catalog.ExportFormat(format), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
	return nil
}

// --- shared helpers ---

func openCatalog() (types.Config, *catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return types.Config{}, nil, err
	}
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return types.Config{}, nil, err
	}
	return cfg, store, nil
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	herb, _ := cmd.Flags().GetString("herb")
	documentID, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Herb:       herb,
		DocumentID: documentID,
		MaxResults: limit,
	}
}

func sortedLabels(names types.NativeNames) []string {
	labels := make([]string, 0, len(names))
	for label := range names {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	catalogCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	if err := viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results")); err != nil {
		panic(err)
	}

	// Search flags.
	catalogSearchCmd.Flags().String("query", "", "match disease names and symptoms")
	catalogSearchCmd.Flags().String("herb", "", "filter by herb or native name")
	catalogSearchCmd.Flags().String("document", "", "filter by document ID")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Show flags.
	catalogShowCmd.Flags().Bool("json", false, "output the disease as JSON")
	catalogShowCmd.Flags().Bool("yaml", false, "output the disease as YAML")
	catalogShowCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or xlsx")
	catalogExportCmd.Flags().String("query", "", "disease name or symptoms filter for partial export")
	catalogExportCmd.Flags().String("herb", "", "herb filter for partial export")
	catalogExportCmd.Flags().String("document", "", "document ID filter for partial export")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/herbal-index/internal/extract"
	"github.com/pdiddy/herbal-index/internal/source"
	"github.com/pdiddy/herbal-index/pkg/types"
)

// previewLen is how much of the input is echoed when nothing is extracted.
const previewLen = 200

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract disease records from one document",
	Long: `Extract loads a document (a file path, an http(s) URL, or "-" for stdin),
splits it into numbered disease entries, and writes {"diseases": [...]} as
indented JSON or YAML. PDF and HTML documents are converted to text first.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "write the result to a file instead of stdout")
	extractCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, cat, err := loadAndExtract(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if len(cat.Diseases) == 0 {
		fmt.Fprintf(stderr, "warning: no diseases found in %s; input begins:\n%s\n", doc.Source, preview(doc.Text))
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeCatalog(w, cat, format); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "extracted %d diseases (%d herbs) from %s\n", len(cat.Diseases), cat.HerbCount(), doc.Source)
	return nil
}

// loadAndExtract loads the document at location and runs the extractor
// configured by cfg over its text.
func loadAndExtract(ctx context.Context, cfg types.Config, location string) (types.Document, types.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := source.NewLoader(cfg.Source, os.Stderr).Load(ctx, location)
	if err != nil {
		return types.Document{}, types.Catalog{}, err
	}
	cat, err := extract.New(cfg.Extract).ExtractBytes(doc.Text)
	if err != nil {
		return doc, types.Catalog{}, fmt.Errorf("%s: %w", location, err)
	}
	return doc, cat, nil
}

func writeCatalog(w io.Writer, cat types.Catalog, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cat); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func preview(text []byte) string {
	r := []rune(string(text))
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"
)

// ExportFormat names an export file format.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

const exportLimit = 100000

var xlsxHeaders = []string{
	"disease_id", "document_id", "disease", "symptoms_and_signs",
	"herb", "native_names", "preparation",
}

// Export writes the diseases matching opts to <dir>/export.<format> and
// returns the path written.
func (s *Store) Export(ctx context.Context, format ExportFormat, opts QueryOptions) (string, error) {
	entries, err := s.Entries(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	path := filepath.Join(s.dir, "export."+string(format))
	switch format {
	case ExportYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
		return path, os.WriteFile(path, data, 0o644)
	case ExportJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
		return path, os.WriteFile(path, data, 0o644)
	case ExportXLSX:
		return path, writeXLSX(entries, path)
	}
	return "", fmt.Errorf("unknown export format %q", format)
}

// writeXLSX writes one row per herb. A disease without herbs still gets a
// row with the herb columns left blank.
func writeXLSX(entries []Entry, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for _, e := range entries {
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		if len(e.Herbs) == 0 {
			set(1, e.ID)
			set(2, e.DocumentID)
			set(3, e.Name)
			set(4, e.SymptomsAndSigns)
			r++
			continue
		}
		for _, h := range e.Herbs {
			set(1, e.ID)
			set(2, e.DocumentID)
			set(3, e.Name)
			set(4, e.SymptomsAndSigns)
			set(5, h.Name)
			set(6, nativeNamesCell(h.NativeNames))
			set(7, h.Preparation)
			r++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// nativeNamesCell renders native names as "Label: Name" pairs sorted by
// label.
func nativeNamesCell(names map[string]string) string {
	labels := make([]string, 0, len(names))
	for label := range names {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = label + ": " + names[label]
	}
	return strings.Join(parts, "; ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/herbal-index/internal/catalog"
	"github.com/pdiddy/herbal-index/pkg/types"
)

const remedies = `Chronic Diseases
1. High Blood Pressure
Herbs:
• Moringa (Moringa oleifera) – Zogale (Hausa), Ewe Igbale (Yoruba)
Preparation:
• Moringa leaves can be boiled or ground into powder.
2. Malaria
Herbs:
• Neem (Azadirachta indica) – Dongoyaro (Yoruba)
• Lemongrass (Cymbopogon citratus)
Preparation:
• Boil and drink.
`

// execute runs the root command with args. Flags keep their values between
// runs, so callers pass every flag whose value matters.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "remedies.txt", remedies)

	stdout, stderr, err := execute(t, "extract", doc, "--output=", "--format=json", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "extracted 2 diseases (3 herbs) from "+doc)

	var got types.Catalog
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Diseases, 2)
	assert.Equal(t, "High Blood Pressure", got.Diseases[0].Name)
	assert.Equal(t, "Malaria", got.Diseases[1].Name)
	assert.Equal(t, "Boil and drink.", got.Diseases[1].Herbs[1].Preparation)
	assert.True(t, strings.HasPrefix(stdout, "{\n  \"diseases\": ["))
}

func TestExtractCommandYAMLToFile(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "remedies.txt", remedies)
	out := filepath.Join(dir, "out.yaml")

	stdout, _, err := execute(t, "extract", doc, "--output", out, "--format=yaml", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got types.Catalog
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Len(t, got.Diseases, 2)
	assert.Equal(t, types.NativeNames{"Yoruba": "Dongoyaro"}, got.Diseases[1].Herbs[0].NativeNames)
}

func TestExtractCommandNoDiseases(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "notes.txt", "Just some notes about herbs.\n")

	stdout, stderr, err := execute(t, "extract", doc, "--output=", "--format=json", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.JSONEq(t, `{"diseases": []}`, stdout)
	assert.Contains(t, stderr, "warning: no diseases found")
	assert.Contains(t, stderr, "Just some notes about herbs.")
}

func TestExtractCommandBadFormat(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "remedies.txt", remedies)

	_, _, err := execute(t, "extract", doc, "--output=", "--format=toml", "--catalog-dir", dir)
	assert.ErrorContains(t, err, `unsupported format "toml"`)
}

func TestCatalogCommands(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "remedies.txt", remedies)

	stdout, _, err := execute(t, "catalog", "ingest", doc, "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "indexed  remedies (2 diseases, 3 herbs)")
	assert.Contains(t, stdout, "1 indexed, 0 updated, 0 skipped, 0 failed")

	stdout, _, err = execute(t, "catalog", "ingest", doc, "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 indexed, 0 updated, 1 skipped, 0 failed")

	stdout, _, err = execute(t, "catalog", "search", "--query=", "--herb", "dongoyaro", "--document=", "--limit=0", "--json", "--catalog-dir", dir)
	require.NoError(t, err)
	var hits []catalog.DiseaseSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "remedies-2", hits[0].ID)
	assert.Equal(t, 2, hits[0].HerbCount)

	stdout, _, err = execute(t, "catalog", "show", "remedies-1", "--json=false", "--yaml=false", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "High Blood Pressure\n")
	assert.Contains(t, stdout, "    Hausa: Zogale\n")
	assert.Contains(t, stdout, "    Preparation: Moringa leaves can be boiled or ground into powder.\n")

	_, _, err = execute(t, "catalog", "show", "remedies-9", "--json=false", "--yaml=false", "--catalog-dir", dir)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	stdout, _, err = execute(t, "catalog", "export", "--format", "xlsx", "--query=", "--herb=", "--document=", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(dir, "export.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "export.xlsx"))
}

func TestCatalogIngestMissingDocument(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "catalog", "ingest", filepath.Join(dir, "missing.txt"), "--catalog-dir", dir)
	assert.ErrorContains(t, err, "1 document(s) failed ingest")
	assert.ErrorContains(t, err, "missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, stdout, "0 indexed, 0 updated, 0 skipped, 1 failed")
}

func TestCatalogIngestReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "remedies.txt", remedies)

	stdout, _, err := execute(t, "catalog", "ingest",
		filepath.Join(dir, "first.txt"), doc, filepath.Join(dir, "second.txt"), "--catalog-dir", dir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "2 document(s) failed ingest")
	assert.ErrorContains(t, err, "first.txt")
	assert.ErrorContains(t, err, "second.txt")
	assert.Contains(t, stdout, "1 indexed, 0 updated, 0 skipped, 2 failed")
}

func TestFormatSearchOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	results := []catalog.DiseaseSummary{{ID: "remedies-1", Name: "High Blood Pressure", HerbCount: 3}}
	require.NoError(t, formatSearchOutput(&buf, results, false))
	assert.Contains(t, buf.String(), "remedies-1")
	assert.Contains(t, buf.String(), "1 results")
}

func TestTruncateAndPreview(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Ẹ̀wẹ́", preview([]byte("Ẹ̀wẹ́")))
	assert.Len(t, []rune(preview([]byte(strings.Repeat("é", 300)))), previewLen)
}

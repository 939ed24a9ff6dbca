//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// Extract converts every document under documents/ to JSON in output/.
func Extract() error {
	ensureBuilt()

	docs, err := documentFiles()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("[extract] No documents found in documents/.")
		return nil
	}
	if err := os.MkdirAll("output", 0o755); err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	for _, doc := range docs {
		base := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))
		out := filepath.Join("output", base+".json")
		if err := sh.RunV(binPath, "extract", doc, "-o", out); err != nil {
			return fmt.Errorf("extracting %s: %w", doc, err)
		}
	}
	return nil
}

// documentFiles lists the regular files under documents/.
func documentFiles() ([]string, error) {
	entries, err := os.ReadDir("documents")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join("documents", e.Name()))
	}
	return files, nil
}

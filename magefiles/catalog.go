//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups the catalog targets.
type Catalog mg.Namespace

// Index ingests every document under documents/ into the SQLite catalog.
func (Catalog) Index() error {
	ensureBuilt()

	docs, err := documentFiles()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("[catalog] No documents found in documents/.")
		return nil
	}
	return sh.RunV(binPath, append([]string{"catalog", "ingest"}, docs...)...)
}

// Export writes the catalog to catalog/export.xlsx.
func (Catalog) Export() error {
	mg.Deps(Catalog{}.Index)
	return sh.RunV(binPath, "catalog", "export", "--format", "xlsx")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted disease records in SQLite and serves
// search, lookup, and export over them. Each ingested document owns its
// diseases; re-ingesting a changed document replaces them wholesale.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/herbal-index/pkg/types"
)

const dbFile = "catalog.db"

// ErrNotFound reports a disease ID with no catalog entry.
var ErrNotFound = errors.New("not found")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.Dir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "catalog"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			format TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS diseases (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			symptoms_and_signs TEXT NOT NULL,
			search_text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diseases_document ON diseases(document_id, position)`,
		`CREATE TABLE IF NOT EXISTS herbs (
			disease_id TEXT NOT NULL REFERENCES diseases(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			native_names TEXT,
			preparation TEXT NOT NULL,
			search_text TEXT NOT NULL,
			PRIMARY KEY (disease_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestStatus is the outcome of ingesting one document.
type IngestStatus string

const (
	StatusIndexed IngestStatus = "indexed"
	StatusUpdated IngestStatus = "updated"
	StatusSkipped IngestStatus = "skipped"
	StatusFailed  IngestStatus = "failed"
)

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Add counts one document outcome.
func (s *IngestSummary) Add(status IngestStatus) {
	switch status {
	case StatusIndexed:
		s.Indexed++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// DiseaseID is the catalog ID of the disease at position (zero-based) in a
// document.
func DiseaseID(documentID string, position int) string {
	return fmt.Sprintf("%s-%d", documentID, position+1)
}

// Ingest stores the diseases extracted from doc. A document whose content
// hash matches the stored one is skipped; a changed document has its old
// diseases replaced. When doc.ID already belongs to a different source, the
// document is stored under DisambiguatedID instead so neither overwrites the
// other. A status line is written to w.
func (s *Store) Ingest(ctx context.Context, doc types.Document, cat types.Catalog, w io.Writer) (IngestStatus, error) {
	stored, found, err := s.storedDocument(ctx, doc.ID)
	if err != nil {
		return StatusFailed, err
	}
	if found && stored.Source != doc.Source {
		doc.ID = DisambiguatedID(doc.ID, doc.Source)
		if stored, found, err = s.storedDocument(ctx, doc.ID); err != nil {
			return StatusFailed, err
		}
	}

	if found && stored.SHA256 == doc.SHA256 {
		fmt.Fprintf(w, "skipped  %s\n", doc.ID)
		return StatusSkipped, nil
	}

	if err := s.ingestDocument(ctx, doc, cat, found); err != nil {
		fmt.Fprintf(w, "failed   %s: %v\n", doc.ID, err)
		return StatusFailed, err
	}

	status := StatusIndexed
	if found {
		status = StatusUpdated
	}
	fmt.Fprintf(w, "%-8s %s (%d diseases, %d herbs)\n", status, doc.ID, len(cat.Diseases), cat.HerbCount())
	return status, nil
}

// DisambiguatedID is the document ID used when id is already taken by
// another source: id plus the first six hex digits of the source's SHA-256.
func DisambiguatedID(id, source string) string {
	sum := sha256.Sum256([]byte(source))
	return id + "-" + hex.EncodeToString(sum[:3])
}

type storedDoc struct {
	Source string
	SHA256 string
}

func (s *Store) storedDocument(ctx context.Context, id string) (storedDoc, bool, error) {
	var d storedDoc
	err := s.db.QueryRowContext(ctx,
		`SELECT source, sha256 FROM documents WHERE id = ?`, id,
	).Scan(&d.Source, &d.SHA256)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return storedDoc{}, false, nil
	case err != nil:
		return storedDoc{}, false, fmt.Errorf("looking up document %s: %w", id, err)
	}
	return d, true, nil
}

func (s *Store) ingestDocument(ctx context.Context, doc types.Document, cat types.Catalog, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM diseases WHERE document_id = ?`, doc.ID); err != nil {
			return fmt.Errorf("deleting old diseases: %w", err)
		}
	}

	loadedAt := doc.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source, format, sha256, ingested_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, format=excluded.format,
			sha256=excluded.sha256, ingested_at=excluded.ingested_at`,
		doc.ID, doc.Source, string(doc.Format), doc.SHA256, loadedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	diseaseStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diseases (id, document_id, position, name, symptoms_and_signs, search_text)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing disease insert: %w", err)
	}
	defer diseaseStmt.Close()

	herbStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO herbs (disease_id, position, name, native_names, preparation, search_text)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing herb insert: %w", err)
	}
	defer herbStmt.Close()

	for i, d := range cat.Diseases {
		id := DiseaseID(doc.ID, i)
		if _, err := diseaseStmt.ExecContext(ctx,
			id, doc.ID, i, d.Name, d.SymptomsAndSigns, fold(d.Name+" "+d.SymptomsAndSigns),
		); err != nil {
			return fmt.Errorf("inserting disease %s: %w", id, err)
		}

		for j, h := range d.Herbs {
			var native sql.NullString
			if h.NativeNames != nil {
				data, err := json.Marshal(h.NativeNames)
				if err != nil {
					return fmt.Errorf("encoding native names for %s: %w", h.Name, err)
				}
				native = sql.NullString{String: string(data), Valid: true}
			}
			if _, err := herbStmt.ExecContext(ctx,
				id, j, h.Name, native, h.Preparation, herbSearchText(h),
			); err != nil {
				return fmt.Errorf("inserting herb %s of %s: %w", h.Name, id, err)
			}
		}
	}

	return tx.Commit()
}

// herbSearchText is the folded text a herb filter matches against: the
// herb name and every native name.
func herbSearchText(h types.Herb) string {
	parts := []string{h.Name}
	for _, name := range h.NativeNames {
		parts = append(parts, name)
	}
	return fold(strings.Join(parts, " | "))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query matches disease names and symptoms, ignoring case and accents.
	Query string

	// Herb keeps diseases with at least one herb whose name or native name
	// matches.
	Herb string

	// DocumentID restricts results to one source document.
	DocumentID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Herb == "" && q.DocumentID == ""
}

// DiseaseSummary is one search hit.
type DiseaseSummary struct {
	ID               string `json:"id" yaml:"id"`
	DocumentID       string `json:"document_id" yaml:"document_id"`
	Name             string `json:"name" yaml:"name"`
	SymptomsAndSigns string `json:"symptoms_and_signs" yaml:"symptoms_and_signs"`
	HerbCount        int    `json:"herb_count" yaml:"herb_count"`
}

// Entry is a stored disease with its herbs in document order.
type Entry struct {
	ID            string `json:"id" yaml:"id"`
	DocumentID    string `json:"document_id" yaml:"document_id"`
	types.Disease `yaml:",inline"`
}

// Search returns diseases matching opts, ordered by document then by
// position within the document.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]DiseaseSummary, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT d.id, d.document_id, d.name, d.symptoms_and_signs,
			(SELECT COUNT(*) FROM herbs h WHERE h.disease_id = d.id)
		FROM diseases d
		WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND d.search_text LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(opts.Query))
	}

	if opts.Herb != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM herbs h WHERE h.disease_id = d.id AND h.search_text LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(opts.Herb))
	}

	if opts.DocumentID != "" {
		qb.WriteString(` AND d.document_id = ?`)
		args = append(args, opts.DocumentID)
	}

	qb.WriteString(` ORDER BY d.document_id, d.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []DiseaseSummary
	for rows.Next() {
		var r DiseaseSummary
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.Name, &r.SymptomsAndSigns, &r.HerbCount); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Get returns the disease stored under id with all of its herbs.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	e := Entry{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT document_id, name, symptoms_and_signs FROM diseases WHERE id = ?`, id,
	).Scan(&e.DocumentID, &e.Name, &e.SymptomsAndSigns)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("disease %s: %w", id, ErrNotFound)
		}
		return Entry{}, fmt.Errorf("looking up disease: %w", err)
	}

	herbs, err := s.herbs(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	e.Herbs = herbs
	return e, nil
}

func (s *Store) herbs(ctx context.Context, diseaseID string) ([]types.Herb, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, native_names, preparation FROM herbs WHERE disease_id = ? ORDER BY position`,
		diseaseID)
	if err != nil {
		return nil, fmt.Errorf("querying herbs of %s: %w", diseaseID, err)
	}
	defer rows.Close()

	herbs := []types.Herb{}
	for rows.Next() {
		var (
			h      types.Herb
			native sql.NullString
		)
		if err := rows.Scan(&h.Name, &native, &h.Preparation); err != nil {
			return nil, fmt.Errorf("scanning herb: %w", err)
		}
		if native.Valid {
			if err := json.Unmarshal([]byte(native.String), &h.NativeNames); err != nil {
				return nil, fmt.Errorf("decoding native names of %s: %w", h.Name, err)
			}
		}
		herbs = append(herbs, h)
	}
	return herbs, rows.Err()
}

// Entries returns the full records for every disease matching opts,
// ignoring the result limit.
func (s *Store) Entries(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	opts.MaxResults = exportLimit
	hits, err := s.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(hits))
	for _, hit := range hits {
		herbs, err := s.herbs(ctx, hit.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			ID:         hit.ID,
			DocumentID: hit.DocumentID,
			Disease: types.Disease{
				Name:             hit.Name,
				SymptomsAndSigns: hit.SymptomsAndSigns,
				Herbs:            herbs,
			},
		})
	}
	return entries, nil
}

// DocumentInfo describes an ingested document.
type DocumentInfo struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Format     string `json:"format" yaml:"format"`
	SHA256     string `json:"sha256" yaml:"sha256"`
	IngestedAt string `json:"ingested_at" yaml:"ingested_at"`
	Diseases   int    `json:"diseases" yaml:"diseases"`
}

// Documents lists ingested documents ordered by ID.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc.id, doc.source, doc.format, doc.sha256, doc.ingested_at,
			(SELECT COUNT(*) FROM diseases d WHERE d.document_id = doc.id)
		FROM documents doc ORDER BY doc.id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.ID, &d.Source, &d.Format, &d.SHA256, &d.IngestedAt, &d.Diseases); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a loosely formatted herbal remedies document into
// disease records. The pipeline runs Normalize, Segment, the block parser,
// and the herb and preparation resolvers, strictly in that order.
//
// Per-block and per-line parsing problems never surface as errors: a block
// without a usable heading is dropped, a herb line without a name is
// dropped, and a block without Herbs or Preparation sections yields fewer
// herbs or no preparations. Only input that is not text fails.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// ErrNotText reports input that is not a text document.
var ErrNotText = errors.New("input is not text")

// ExtractionFailure is the single error an extraction run can return.
type ExtractionFailure struct {
	Err error
}

func (f *ExtractionFailure) Error() string {
	return "extraction failed: " + f.Err.Error()
}

func (f *ExtractionFailure) Unwrap() error {
	return f.Err
}

// utf8BOM is stripped from the start of byte input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor runs the extraction pipeline. It holds configuration only, so
// one Extractor can serve concurrent runs.
type Extractor struct {
	locator        SectionLocator
	workers        int
	allowBareNames bool
	policy         types.PreparationPolicy
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithLocator replaces the default KeywordLocator.
func WithLocator(l SectionLocator) Option {
	return func(e *Extractor) {
		e.locator = l
	}
}

// New returns an Extractor configured from cfg. An unknown preparation
// policy falls back to PolicyProvisional; callers validate it beforehand.
func New(cfg types.ExtractionConfig, opts ...Option) *Extractor {
	policy := cfg.PreparationPolicy
	if policy == "" || !policy.Valid() {
		policy = types.PolicyProvisional
	}
	e := &Extractor{
		locator:        KeywordLocator{},
		workers:        cfg.Workers,
		allowBareNames: cfg.AllowBareNames,
		policy:         policy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts doc into a Catalog. The result is never nil-valued: an
// empty or heading-free document yields a Catalog with zero diseases.
func (e *Extractor) Extract(doc string) types.Catalog {
	blocks := Segment(Normalize(doc))

	parsed := make([]types.Disease, len(blocks))
	ok := make([]bool, len(blocks))

	if e.workers > 1 && len(blocks) > 1 {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, block := range blocks {
			g.Go(func() error {
				parsed[i], ok[i] = e.parseBlock(block)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, block := range blocks {
			parsed[i], ok[i] = e.parseBlock(block)
		}
	}

	catalog := types.Catalog{Diseases: make([]types.Disease, 0, len(blocks))}
	for i := range parsed {
		if ok[i] {
			catalog.Diseases = append(catalog.Diseases, parsed[i])
		}
	}
	return catalog
}

// ExtractBytes validates that data is text and extracts it. A leading UTF-8
// byte order mark is ignored.
func (e *Extractor) ExtractBytes(data []byte) (types.Catalog, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return types.Catalog{}, &ExtractionFailure{Err: ErrNotText}
	}
	return e.Extract(string(data)), nil
}

// ExtractReader reads the whole document from r and extracts it.
func (e *Extractor) ExtractReader(r io.Reader) (types.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Catalog{}, &ExtractionFailure{Err: fmt.Errorf("reading document: %w", err)}
	}
	return e.ExtractBytes(data)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentFormat identifies how a source document was decoded into text.
type DocumentFormat string

const (
	FormatText DocumentFormat = "text"
	FormatHTML DocumentFormat = "html"
	FormatPDF  DocumentFormat = "pdf"
)

// Document is a loaded source document ready for extraction.
type Document struct {
	// ID is a slug derived from the source location (e.g. "conditions").
	ID string `json:"id" yaml:"id"`

	// Source is the file path, URL, or "-" for standard input.
	Source string `json:"source" yaml:"source"`

	// Format records which decoder produced Text.
	Format DocumentFormat `json:"format" yaml:"format"`

	// Text is the plain document text handed to the extractor.
	Text []byte `json:"-" yaml:"-"`

	// SHA256 is the hex digest of Text, used to skip unchanged documents.
	SHA256 string `json:"sha256" yaml:"sha256"`

	// LoadedAt is when the document was read.
	LoadedAt time.Time `json:"loaded_at" yaml:"loaded_at"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionConfig holds settings for the extraction pipeline.
type ExtractionConfig struct {
	// Workers is the number of disease blocks parsed concurrently.
	// Values below 2 parse sequentially.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// AllowBareNames accepts bullet herb lines that have neither an en-dash
	// nor a parenthesis, using the whole bullet text as the herb name.
	AllowBareNames bool `json:"allow_bare_names" yaml:"allow_bare_names" mapstructure:"allow_bare_names"`

	// PreparationPolicy selects the preparation resolver policy
	// (default provisional).
	PreparationPolicy PreparationPolicy `json:"preparation_policy" yaml:"preparation_policy" mapstructure:"preparation_policy"`
}

// SourceConfig holds settings for loading documents from files and URLs.
type SourceConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "herbal-index/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 and 5xx (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// MaxBytes caps the size of a loaded document (default 16 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// CatalogConfig holds settings for the SQLite catalog.
type CatalogConfig struct {
	// Dir is the directory holding catalog.db and export files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all component configurations.
type Config struct {
	Extract ExtractionConfig `json:"extract" yaml:"extract" mapstructure:"extract"`
	Source  SourceConfig     `json:"source" yaml:"source" mapstructure:"source"`
	Catalog CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}

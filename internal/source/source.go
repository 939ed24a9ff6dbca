// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads herbal remedy documents from files, standard input,
// or HTTP(S) URLs and decodes them to plain text for extraction. PDF and
// HTML documents are flattened to lines; anything else is passed through.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// Stdin is the location that reads the document from standard input.
const Stdin = "-"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "herbal-index/dev"
	defaultMaxBytes  = 16 << 20
)

// Loader reads documents. The zero value is not usable; call NewLoader.
type Loader struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	maxBytes   int64
	stdin      io.Reader
	log        io.Writer
}

// NewLoader returns a Loader configured from cfg. Retry progress is written
// to log.
func NewLoader(cfg types.SourceConfig, log io.Writer) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if log == nil {
		log = io.Discard
	}
	return &Loader{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxRetries: cfg.MaxRetries,
		maxBytes:   maxBytes,
		stdin:      os.Stdin,
		log:        log,
	}
}

// Load reads the document at location: "-" for standard input, an http or
// https URL, or a file path. File sources are recorded as absolute paths.
func (l *Loader) Load(ctx context.Context, location string) (types.Document, error) {
	var (
		data        []byte
		contentType string
		err         error
		src         = location
	)

	switch {
	case location == Stdin:
		data, err = l.readLimited(l.stdin)
	case isURL(location):
		data, contentType, err = l.fetch(ctx, location)
	default:
		data, err = l.readFile(location)
		if abs, absErr := filepath.Abs(location); absErr == nil {
			src = abs
		}
	}
	if err != nil {
		return types.Document{}, err
	}

	format := detectFormat(location, contentType, data)
	text, err := decode(format, data)
	if err != nil {
		return types.Document{}, fmt.Errorf("decoding %s: %w", location, err)
	}

	sum := sha256.Sum256(text)
	return types.Document{
		ID:       documentID(location),
		Source:   src,
		Format:   format,
		Text:     text,
		SHA256:   hex.EncodeToString(sum[:]),
		LoadedAt: time.Now().UTC(),
	}, nil
}

func (l *Loader) readFile(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", p, err)
	}
	defer f.Close()
	data, err := l.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// readLimited reads all of r, failing when it holds more than maxBytes.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := doWithRetry(ctx, l.client, req, l.maxRetries, l.log)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// detectFormat picks a decoder from the content type, the file extension,
// then the leading bytes, in that order.
func detectFormat(location, contentType string, data []byte) types.DocumentFormat {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch mt {
			case "application/pdf":
				return types.FormatPDF
			case "text/html", "application/xhtml+xml":
				return types.FormatHTML
			case "text/plain":
				return types.FormatText
			}
		}
	}

	switch strings.ToLower(filepath.Ext(locationPath(location))) {
	case ".pdf":
		return types.FormatPDF
	case ".html", ".htm", ".xhtml":
		return types.FormatHTML
	case ".txt", ".text", ".md":
		return types.FormatText
	}

	if strings.HasPrefix(string(data[:min(len(data), 5)]), "%PDF-") {
		return types.FormatPDF
	}
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "text/html") {
		return types.FormatHTML
	}
	return types.FormatText
}

func decode(format types.DocumentFormat, data []byte) ([]byte, error) {
	switch format {
	case types.FormatPDF:
		text, err := pdfText(data)
		return []byte(text), err
	case types.FormatHTML:
		text, err := htmlText(data)
		return []byte(text), err
	}
	return data, nil
}

// locationPath returns the path component of a URL, or location itself.
func locationPath(location string) string {
	if isURL(location) {
		if u, err := url.Parse(location); err == nil {
			return u.Path
		}
	}
	return location
}

// documentID derives a slug from the last path element of location.
func documentID(location string) string {
	if location == Stdin {
		return "stdin"
	}
	base := path.Base(filepath.ToSlash(locationPath(location)))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		if u, err := url.Parse(location); err == nil && u.Host != "" {
			base = u.Host
		}
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	id := strings.TrimSuffix(b.String(), "-")
	if id == "" {
		return "document"
	}
	return id
}

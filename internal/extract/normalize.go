// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

var (
	// lineEndRe matches CRLF line endings, including stray repeated CRs.
	lineEndRe = regexp.MustCompile(`\r+\n`)

	// newlineRunRe matches two or more consecutive newlines.
	newlineRunRe = regexp.MustCompile(`\n{2,}`)
)

// Normalize canonicalizes line endings to LF, collapses runs of newlines into
// one, and trims the document. Blank-line paragraph breaks do not survive.
func Normalize(doc string) string {
	doc = lineEndRe.ReplaceAllString(doc, "\n")
	doc = newlineRunRe.ReplaceAllString(doc, "\n")
	return strings.TrimSpace(doc)
}

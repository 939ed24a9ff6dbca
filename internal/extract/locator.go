// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "regexp"

// AnchorKind identifies a sub-section anchor inside a disease block.
type AnchorKind int

const (
	AnchorHerbs AnchorKind = iota
	AnchorPreparation
	AnchorSymptoms
	AnchorOrdinal
)

func (k AnchorKind) String() string {
	switch k {
	case AnchorHerbs:
		return "herbs"
	case AnchorPreparation:
		return "preparation"
	case AnchorSymptoms:
		return "symptoms"
	case AnchorOrdinal:
		return "ordinal"
	}
	return "unknown"
}

// Anchor is a located section anchor. Start is the offset of the anchor
// token; End is the offset where the text governed by the anchor begins.
type Anchor struct {
	Kind  AnchorKind
	Start int
	End   int
}

// SectionLocator finds section anchors in a disease block. Implementations
// return the first anchor of kind whose Start is at or after from.
type SectionLocator interface {
	Next(text string, kind AnchorKind, from int) (Anchor, bool)
}

// KeywordLocator finds anchors by case-insensitive keyword match anywhere in
// the text. A heading anchor consumes a trailing colon and whitespace so
// the section body starts at its first content character.
type KeywordLocator struct{}

// keywordPatterns holds the pattern for each anchor kind.
var keywordPatterns = map[AnchorKind]*regexp.Regexp{
	AnchorHerbs:       regexp.MustCompile(`(?i)herbs[:\s]*`),
	AnchorPreparation: regexp.MustCompile(`(?i)preparation[:\s]*`),
	AnchorSymptoms:    regexp.MustCompile(`(?i)symptoms`),
	AnchorOrdinal:     regexp.MustCompile(`\n\d+\.`),
}

// Next implements SectionLocator.
func (KeywordLocator) Next(text string, kind AnchorKind, from int) (Anchor, bool) {
	re, ok := keywordPatterns[kind]
	if !ok || from < 0 || from > len(text) {
		return Anchor{}, false
	}
	loc := re.FindStringIndex(text[from:])
	if loc == nil {
		return Anchor{}, false
	}
	return Anchor{Kind: kind, Start: from + loc[0], End: from + loc[1]}, true
}

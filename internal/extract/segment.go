// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// ordinalHeadingRe matches an ordinal heading ("12. ") at the start of a line.
var ordinalHeadingRe = regexp.MustCompile(`(?m)^\d+\.\s`)

// Segment splits normalized text into disease blocks. Each block starts at an
// ordinal heading and runs up to the next heading or the end of the text.
// Text before the first heading is discarded. Ordinal values are not checked
// for order or uniqueness.
func Segment(text string) []string {
	locs := ordinalHeadingRe.FindAllStringIndex(text, -1)
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := text[loc[0]:end]
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

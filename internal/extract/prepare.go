// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// ResolvePreparations assigns preparation lines from a Preparation
// sub-section to herbs, in place. Each line first goes through the targeted
// pass, then the broadcast pass. Line order decides which text a herb gets
// when several lines compete.
func ResolvePreparations(section string, herbs []types.Herb, policy types.PreparationPolicy) {
	targeted := make([]bool, len(herbs))
	for _, text := range preparationLines(section) {
		matchTargeted(herbs, targeted, text, policy)
		broadcast(herbs, text)
	}
}

// preparationLines returns the candidate lines of a Preparation sub-section
// with the bullet stripped. Lines that are empty after stripping are skipped.
func preparationLines(section string) []string {
	var lines []string
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, bullet) && !strings.Contains(trimmed, "can be") {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, bullet))
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}
	return lines
}

// matchTargeted gives text to the first eligible herb whose base name occurs
// in it and returns that herb's index, or -1. Under PolicyProvisional a herb
// stops being eligible once it wins a targeted match. Under PolicyLegacy
// every herb is eligible, so the first herb named in the line is overwritten
// even when an earlier line already targeted it.
func matchTargeted(herbs []types.Herb, targeted []bool, text string, policy types.PreparationPolicy) int {
	lower := strings.ToLower(text)
	for i := range herbs {
		if targeted[i] && policy != types.PolicyLegacy {
			continue
		}
		base := baseName(herbs[i].Name)
		if base == "" || !strings.Contains(lower, base) {
			continue
		}
		herbs[i].Preparation = text
		targeted[i] = true
		return i
	}
	return -1
}

// broadcast gives text to every herb that still has no preparation and
// returns how many herbs it filled.
func broadcast(herbs []types.Herb, text string) int {
	filled := 0
	for i := range herbs {
		if herbs[i].Preparation != "" {
			continue
		}
		herbs[i].Preparation = text
		filled++
	}
	return filled
}

// baseName is the lower-cased herb name before any parenthetical.
func baseName(name string) string {
	base, _, _ := strings.Cut(name, "(")
	return strings.ToLower(strings.TrimSpace(base))
}

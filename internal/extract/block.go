// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/herbal-index/pkg/types"
)

// headingRe captures the disease name from a block's heading line.
var headingRe = regexp.MustCompile(`^\d+\.\s*(.*)$`)

// herbsTerminators end a Herbs sub-section, whichever comes first.
var herbsTerminators = []AnchorKind{AnchorPreparation, AnchorSymptoms, AnchorOrdinal}

// parseBlock turns one disease block into a Disease. It reports false when
// the heading line yields no name; such blocks are dropped without error.
func (e *Extractor) parseBlock(block string) (types.Disease, bool) {
	name, ok := diseaseName(block)
	if !ok {
		return types.Disease{}, false
	}

	disease := types.Disease{
		Name:             name,
		SymptomsAndSigns: types.SymptomsNotSpecified,
		Herbs:            []types.Herb{},
	}

	if section, ok := herbsSection(e.locator, block); ok {
		disease.Herbs = ParseHerbs(section, e.allowBareNames)
	}
	if section, ok := preparationSection(e.locator, block); ok {
		ResolvePreparations(section, disease.Herbs, e.policy)
	}
	return disease, true
}

// diseaseName returns the trimmed heading text after the ordinal prefix.
func diseaseName(block string) (string, bool) {
	heading, _, _ := strings.Cut(block, "\n")
	m := headingRe.FindStringSubmatch(strings.TrimSpace(heading))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	return name, name != ""
}

// herbsSection returns the text after the first Herbs anchor, up to the
// nearest Preparation, Symptoms, or ordinal anchor.
func herbsSection(loc SectionLocator, block string) (string, bool) {
	start, ok := loc.Next(block, AnchorHerbs, 0)
	if !ok {
		return "", false
	}
	end := len(block)
	for _, kind := range herbsTerminators {
		if a, ok := loc.Next(block, kind, start.End); ok && a.Start < end {
			end = a.Start
		}
	}
	return block[start.End:end], true
}

// preparationSection returns the text after the first Preparation anchor, up
// to the next ordinal anchor.
func preparationSection(loc SectionLocator, block string) (string, bool) {
	start, ok := loc.Next(block, AnchorPreparation, 0)
	if !ok {
		return "", false
	}
	end := len(block)
	if a, ok := loc.Next(block, AnchorOrdinal, start.End); ok {
		end = a.Start
	}
	return block[start.End:end], true
}

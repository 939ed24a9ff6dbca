// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/herbal-index/pkg/types"
)

const (
	bullet = "•"
	enDash = "–"
)

var (
	// labelValueRe matches "Yoruba: Efirin" and "Hausa=Zogale" pairs.
	labelValueRe = regexp.MustCompile(`(\w+)\s*[:=]\s*([^),\n]+)`)

	// labelledNameRe matches "Ewe Igbale (Yoruba)" entries, name first. The
	// label is capitalized; "leaves (fresh)" is a qualifier, not a language.
	labelledNameRe = regexp.MustCompile(`([^,()–]+)\(\s*(\p{Lu}[\p{L} /-]*?)\s*\)`)
)

// ParseHerbs extracts herbs from a Herbs sub-section. Lines that start with a
// bullet or contain an en-dash are candidates; candidates without a usable
// name are dropped. Source order is kept and duplicates are not merged.
func ParseHerbs(section string, allowBareNames bool) []types.Herb {
	herbs := []types.Herb{}
	for _, line := range strings.Split(section, "\n") {
		if !isHerbLine(line) {
			continue
		}
		name, ok := herbName(line, allowBareNames)
		if !ok {
			continue
		}
		herbs = append(herbs, types.Herb{
			Name:        name,
			NativeNames: parseNativeNames(line),
		})
	}
	return herbs
}

func isHerbLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), bullet) || strings.Contains(line, enDash)
}

// herbName tries the bullet form first (text after the bullet up to the
// first en-dash or parenthesis), then the text before the first en-dash.
func herbName(line string, allowBareNames bool) (string, bool) {
	if i := strings.Index(line, bullet); i >= 0 {
		rest := line[i+len(bullet):]
		if j := strings.IndexAny(rest, enDash+"("); j >= 0 {
			if name := strings.TrimSpace(rest[:j]); name != "" {
				return name, true
			}
		} else if allowBareNames {
			if name := strings.TrimSpace(rest); name != "" {
				return name, true
			}
		}
	}

	before, _, found := strings.Cut(line, enDash)
	if !found {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(before), bullet))
	return name, name != ""
}

// parseNativeNames collects label/name pairs from a herb line. It returns
// nil, not an empty map, when the line has none.
func parseNativeNames(line string) types.NativeNames {
	var names types.NativeNames
	add := func(label, value string, replace bool) {
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if label == "" || value == "" {
			return
		}
		if names == nil {
			names = types.NativeNames{}
		}
		if _, exists := names[label]; exists && !replace {
			return
		}
		names[label] = value
	}

	for _, m := range labelValueRe.FindAllStringSubmatch(line, -1) {
		add(m[1], m[2], true)
	}

	// "Name (Label)" entries only count after the first en-dash; before it
	// the parenthetical is the botanical name.
	if _, tail, found := strings.Cut(line, enDash); found {
		for _, m := range labelledNameRe.FindAllStringSubmatch(tail, -1) {
			add(m[2], m[1], false)
		}
	}
	return names
}

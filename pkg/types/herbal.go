// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SymptomsNotSpecified is the symptoms_and_signs value of every extracted
// Disease. The extraction heuristic does not read a symptoms section.
const SymptomsNotSpecified = "Not specified"

// NativeNames maps a language or dialect label, exactly as written in the
// source line, to the herb's name in that language. A herb with no native
// names carries a nil map so the field is omitted on serialization.
type NativeNames map[string]string

// Herb is one entry of a disease's Herbs list.
type Herb struct {
	// Name is the herb name without the botanical parenthetical.
	Name string `json:"name" yaml:"name"`

	// NativeNames is nil when the herb line carries no label/name pairs.
	NativeNames NativeNames `json:"native_names,omitempty" yaml:"native_names,omitempty"`

	// Preparation is the free-text preparation line attached to this herb,
	// or empty when none was resolved.
	Preparation string `json:"preparation" yaml:"preparation"`
}

// Disease is one numbered entry of the source document.
type Disease struct {
	// Name is the heading text after the ordinal prefix, trimmed.
	Name string `json:"name" yaml:"name"`

	// SymptomsAndSigns is always SymptomsNotSpecified for extracted records.
	SymptomsAndSigns string `json:"symptoms_and_signs" yaml:"symptoms_and_signs"`

	// Herbs are listed in source line order. Never nil.
	Herbs []Herb `json:"herbs" yaml:"herbs"`
}

// HerbCount returns the total number of herbs across diseases.
func (c Catalog) HerbCount() int {
	n := 0
	for _, d := range c.Diseases {
		n += len(d.Herbs)
	}
	return n
}

// Catalog is the output of one extraction run: diseases in document order.
type Catalog struct {
	Diseases []Disease `json:"diseases" yaml:"diseases"`
}

// PreparationPolicy selects how the preparation resolver treats herbs that
// already received broadcast text.
type PreparationPolicy string

const (
	// PolicyProvisional lets a later targeted match replace broadcast text.
	PolicyProvisional PreparationPolicy = "provisional"

	// PolicyLegacy matches every line against all herbs in order and
	// overwrites the first herb it names, targeted or not.
	PolicyLegacy PreparationPolicy = "legacy"
)

// Valid reports whether p names a known policy. The empty policy is valid
// and means PolicyProvisional.
func (p PreparationPolicy) Valid() bool {
	switch p {
	case "", PolicyProvisional, PolicyLegacy:
		return true
	}
	return false
}

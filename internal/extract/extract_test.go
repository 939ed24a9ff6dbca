// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/herbal-index/pkg/types"
)

const highBloodPressure = `1. High Blood Pressure
Herbs:
• Moringa (Moringa oleifera) – Zogale (Hausa), Ewe Igbale (Yoruba)
Preparation:
• Moringa leaves can be boiled or ground into powder.
`

func loadSample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "conditions.txt"))
	require.NoError(t, err)
	return string(data)
}

func TestExtractEndToEnd(t *testing.T) {
	got := New(types.ExtractionConfig{}).Extract(highBloodPressure)

	want := types.Catalog{Diseases: []types.Disease{{
		Name:             "High Blood Pressure",
		SymptomsAndSigns: "Not specified",
		Herbs: []types.Herb{{
			Name:        "Moringa",
			NativeNames: types.NativeNames{"Hausa": "Zogale", "Yoruba": "Ewe Igbale"},
			Preparation: "Moringa leaves can be boiled or ground into powder.",
		}},
	}}}
	assert.Equal(t, want, got)
}

func TestExtractEmpty(t *testing.T) {
	e := New(types.ExtractionConfig{})
	for _, doc := range []string{"", "   \r\n\r\n", "Infectious Diseases\nNo numbered entries here."} {
		got := e.Extract(doc)
		require.NotNil(t, got.Diseases)
		assert.Empty(t, got.Diseases)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{"diseases": []}`, string(data))
	}
}

func TestExtractSample(t *testing.T) {
	got := New(types.ExtractionConfig{}).Extract(loadSample(t))

	names := make([]string, len(got.Diseases))
	for i, d := range got.Diseases {
		names[i] = d.Name
	}
	assert.Equal(t, []string{
		"High Blood Pressure (Hypertension)",
		"Diabetes",
		"Stomach Ulcers & Digestive Issues",
		"Arthritis & Joint Pain",
		"Sickle Cell Anemia",
		"Malaria & Fever",
		"Typhoid Fever",
		"Respiratory Infections (Cough, Asthma, Pneumonia)",
		"Skin Infections (Ringworm, Eczema, Wounds)",
		"Sexually Transmitted Infections (STIs)",
	}, names)

	hbp := got.Diseases[0]
	require.Len(t, hbp.Herbs, 3)
	assert.Equal(t, types.Herb{
		Name:        "Moringa",
		NativeNames: types.NativeNames{"Hausa": "Zogale", "Yoruba": "Ewe Igbale"},
		Preparation: "Moringa leaves can be boiled or ground into powder and added to meals.",
	}, hbp.Herbs[0])
	assert.Equal(t, "African Spinach", hbp.Herbs[1].Name)
	assert.Equal(t, types.NativeNames{"Yoruba": "Efo tete"}, hbp.Herbs[1].NativeNames)
	assert.Equal(t, "Moringa leaves can be boiled or ground into powder and added to meals.", hbp.Herbs[1].Preparation)
	assert.Equal(t, "Hibiscus", hbp.Herbs[2].Name)
	assert.Nil(t, hbp.Herbs[2].NativeNames)
	assert.Equal(t, "Zobo drink is made by soaking dried hibiscus flowers in water with ginger.", hbp.Herbs[2].Preparation)

	diabetes := got.Diseases[1]
	require.Len(t, diabetes.Herbs, 2, "bare \"Aloe Vera\" bullet is dropped")
	assert.Equal(t, "Bitter Leaf", diabetes.Herbs[0].Name)
	assert.Equal(t, "Mango Leaves", diabetes.Herbs[1].Name)

	typhoid := got.Diseases[6]
	require.Len(t, typhoid.Herbs, 3)
	assert.Equal(t, types.NativeNames{"Igbo": "Nchanwu", "Yoruba": "Efirin"}, typhoid.Herbs[0].NativeNames)
	assert.Equal(t, "Tropical almond leaves are boiled and taken as a tonic.", typhoid.Herbs[2].Preparation)

	for _, d := range got.Diseases {
		assert.Equal(t, types.SymptomsNotSpecified, d.SymptomsAndSigns)
		assert.Equal(t, strings.TrimSpace(d.Name), d.Name)
	}
}

func TestExtractSampleBareNames(t *testing.T) {
	got := New(types.ExtractionConfig{AllowBareNames: true}).Extract(loadSample(t))
	require.Len(t, got.Diseases[1].Herbs, 3)
	aloe := got.Diseases[1].Herbs[2]
	assert.Equal(t, "Aloe Vera", aloe.Name)
	assert.Equal(t, "Aloe vera gel can be consumed raw or blended with water.", aloe.Preparation)
}

func TestExtractLegacyPolicy(t *testing.T) {
	legacy := New(types.ExtractionConfig{PreparationPolicy: types.PolicyLegacy})

	got := legacy.Extract(loadSample(t))
	assert.Equal(t, []string{
		"Moringa leaves can be boiled or ground into powder and added to meals.",
		"Moringa leaves can be boiled or ground into powder and added to meals.",
		"Zobo drink is made by soaking dried hibiscus flowers in water with ginger.",
	}, preparations(got.Diseases[0].Herbs))

	doc := "1. Skin Rash\nHerbs:\n• Ginger – Ata-ile (Yoruba)\n• Neem – Dongoyaro (Hausa)\n" +
		"Preparation:\n• Ginger tea.\n• Ginger and neem bath.\n"
	assert.Equal(t, []string{"Ginger and neem bath.", "Ginger tea."},
		preparations(legacy.Extract(doc).Diseases[0].Herbs))
	assert.Equal(t, []string{"Ginger tea.", "Ginger and neem bath."},
		preparations(New(types.ExtractionConfig{}).Extract(doc).Diseases[0].Herbs))
}

func TestExtractParallelMatchesSequential(t *testing.T) {
	doc := loadSample(t)
	seq := New(types.ExtractionConfig{Workers: 1}).Extract(doc)
	for _, workers := range []int{2, 4, 16} {
		par := New(types.ExtractionConfig{Workers: workers}).Extract(doc)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestExtractSkipsMalformedHeadings(t *testing.T) {
	doc := "1. \nHerbs:\n• Neem – Dongoyaro\n2. Cholera\nHerbs:\n• Guava leaves (Psidium guajava)\n"
	got := New(types.ExtractionConfig{}).Extract(doc)
	require.Len(t, got.Diseases, 1)
	assert.Equal(t, "Cholera", got.Diseases[0].Name)
}

func TestExtractCRLF(t *testing.T) {
	doc := strings.ReplaceAll(highBloodPressure, "\n", "\r\n\r\n")
	e := New(types.ExtractionConfig{})
	assert.Equal(t, e.Extract(highBloodPressure), e.Extract(doc))
}

func TestExtractBytes(t *testing.T) {
	e := New(types.ExtractionConfig{})

	got, err := e.ExtractBytes(append([]byte{0xEF, 0xBB, 0xBF}, highBloodPressure...))
	require.NoError(t, err)
	require.Len(t, got.Diseases, 1)
	assert.Equal(t, "High Blood Pressure", got.Diseases[0].Name)

	for _, bad := range [][]byte{{0xff, 0xfe, 0x00}, []byte("1. A\x00B")} {
		_, err := e.ExtractBytes(bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotText)
		var failure *ExtractionFailure
		assert.True(t, errors.As(err, &failure))
	}
}

func TestExtractReader(t *testing.T) {
	e := New(types.ExtractionConfig{})

	got, err := e.ExtractReader(strings.NewReader(highBloodPressure))
	require.NoError(t, err)
	assert.Len(t, got.Diseases, 1)

	readErr := errors.New("disk on fire")
	_, err = e.ExtractReader(iotest.ErrReader(readErr))
	assert.ErrorIs(t, err, readErr)
	var failure *ExtractionFailure
	assert.ErrorAs(t, err, &failure)
}

func TestNativeNamesOmittedOnRoundTrip(t *testing.T) {
	doc := "1. Diabetes\nHerbs:\n• Bitter Leaf (Vernonia amygdalina)\n• Ginger (Zingiber officinale) – Ata-ile (Yoruba)\n"
	got := New(types.ExtractionConfig{}).Extract(doc)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"diseases":[{"name":"Diabetes","symptoms_and_signs":"Not specified","herbs":[
		{"name":"Bitter Leaf","preparation":""},
		{"name":"Ginger","native_names":{"Yoruba":"Ata-ile"},"preparation":""}
	]}]}`, string(data))

	var back types.Catalog
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.Diseases[0].Herbs[0].NativeNames)
	assert.Equal(t, got, back)

	ydata, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, strings.SplitN(string(ydata), "- name: Ginger", 2)[0], "native_names")
}

func TestNewPolicyFallback(t *testing.T) {
	e := New(types.ExtractionConfig{PreparationPolicy: "bogus"})
	assert.Equal(t, types.PolicyProvisional, e.policy)
}

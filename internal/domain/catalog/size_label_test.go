package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodega-api/internal/domain/catalog"
)

func TestNormalizeSizeLabel(t *testing.T) {
	tests := map[string]string{
		"9mm":          "9 mm",
		"  25mm ":      "25 mm",
		"1.5m":         "1.5 m",
		"12   X  4 in": "12 X 4 in",
		"3KG":          "3 KG",
		"Grande":       "Grande",
		"10 mm":        "10 mm",
		"2inch":        "2inch",
	}
	for in, want := range tests {
		assert.Equal(t, want, catalog.NormalizeSizeLabel(in), "entrada %q", in)
	}
}

func TestSizeLabelMatches(t *testing.T) {
	assert.True(t, catalog.SizeLabelMatches("9mm", "9 MM"))
	assert.True(t, catalog.SizeLabelMatches(" grande ", "GRANDE"))
	assert.False(t, catalog.SizeLabelMatches("9 mm", "90 mm"))
}

func TestSameName(t *testing.T) {
	assert.True(t, catalog.SameName("Tornillos", " tornillos"))
	assert.False(t, catalog.SameName("Tornillos", "Tuercas"))
}

func TestGenerateSKUCode(t *testing.T) {
	assert.Equal(t, "ROP-RED-9MM-MET", catalog.GenerateSKUCode("Rope", "Red", "9 mm", "Meter"))
	assert.Equal(t, "NYLR-DAR-12X4IN-PCS", catalog.GenerateSKUCode("Nylon Rope", "Dark Blue", "12 x 4 in", "pcs"))
}

// Package catalog reglas de normalización del catálogo de variantes.
package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var unitSuffix = regexp.MustCompile(`(?i)(\d)(mm|cm|m|in|ft|kg|g|lb|oz)\b`)

var folder = cases.Fold()

// NormalizeSizeLabel recorta, colapsa espacios y separa número y unidad ("9mm" -> "9 mm").
func NormalizeSizeLabel(raw string) string {
	s := strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
	return unitSuffix.ReplaceAllString(s, "$1 $2")
}

// SizeLabelMatches compara dos tallas tras normalizar, sin distinguir mayúsculas.
func SizeLabelMatches(a, b string) bool {
	return SameName(NormalizeSizeLabel(a), NormalizeSizeLabel(b))
}

// SameName compara nombres de catálogo sin distinguir mayúsculas ni espacios extremos.
func SameName(a, b string) bool {
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// GenerateSKUCode arma un código legible CAT-COL-TALLA-UNI a partir de los nombres.
func GenerateSKUCode(category, color, size, unit string) string {
	parts := []string{
		truncate(abbreviate(category), 4),
		truncate(abbreviate(color), 3),
		truncate(strings.ToUpper(strings.Join(strings.Fields(size), "")), 6),
		truncate(abbreviate(unit), 4),
	}
	return strings.Join(parts, "-")
}

// abbreviate toma las tres primeras letras de cada palabra, en mayúsculas.
func abbreviate(s string) string {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			return r
		}
		return -1
	}, s)
	var b strings.Builder
	for _, w := range strings.Split(clean, " ") {
		b.WriteString(strings.ToUpper(truncate(w, 3)))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

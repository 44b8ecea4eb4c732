package services

import (
	"strconv"
	"strings"
)

// Fallback tokens when a seed produces an empty slug.
const (
	CodeFallbackBidang   = "BIDANG"
	CodeFallbackDocument = "DOC"
)

// latinFold maps common accented Latin letters to their ASCII base so that
// titles like "Évaluasi" still produce usable codes.
var latinFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ý': 'y',
}

// SlugUpper normalizes a human-readable name into an uppercase,
// underscore-separated slug: "Bidang Pengendalian Air" ->
// "BIDANG_PENGENDALIAN_AIR". Punctuation is dropped, runs of separators
// collapse to a single underscore.
func SlugUpper(seed string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(seed) {
		if folded, ok := latinFold[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	return strings.ToUpper(b.String())
}

// GenerateCode derives a unique business code from seed. When the slug is
// empty the fallback token is used as the base. Collisions are resolved by
// appending _1, _2, ... until exists reports the candidate free.
func GenerateCode(seed, fallback string, exists func(string) (bool, error)) (string, error) {
	base := SlugUpper(seed)
	if base == "" {
		base = fallback
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "_" + strconv.Itoa(i)
	}
}

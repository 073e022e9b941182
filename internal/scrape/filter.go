package scrape

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accessoryKeywords marks cases, covers and screen protectors that
// listing pages mix in with the phones themselves. Includes the
// Albanian terms the tracked storefronts use.
var accessoryKeywords = []string{
	"case",
	"cover",
	"kallf",
	"kellf",
	"mbrojt",
	"spigen",
	"glass",
	"xham",
	"magsafe",
	"ultra hybrid",
	"clear",
	"protector",
}

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining marks so "mbrojtëse" matches
// "mbrojtese". Falls back to the input if the transform fails.
func FoldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFold, s)
	if err != nil {
		return s
	}
	return folded
}

// LooksLikeAccessory reports whether a listing name is an accessory
// rather than a primary product. Case- and diacritic-insensitive.
func LooksLikeAccessory(name string) bool {
	lower := strings.ToLower(FoldDiacritics(name))
	for _, keyword := range accessoryKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MatchesKeyword reports whether a listing name contains the target
// product keyword, case-insensitively. An empty keyword matches
// everything.
func MatchesKeyword(name, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(keyword))
}

package scrape

import (
	"regexp"
	"strings"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable SKU from a product name: lowercase, runs of
// non-alphanumerics collapsed to a single hyphen, no leading or
// trailing hyphen. Deterministic, so the same listing always maps to
// the same product across cycles and shops.
func Slugify(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Attribute priority for image candidates: lazy-load attributes first,
// then src variants. srcset-style attributes are handled separately
// because they carry comma-separated descriptor lists.
var imageAttrs = []string{"data-src", "data-original", "data-lazy", "src", "ng-src", "data-ng-src"}

var imageSetAttrs = []string{"srcset", "data-srcset"}

// ExtractImageURLs collects candidate image URLs from an img selection,
// normalised against base and deduplicated in first-seen order. A nil
// or empty selection yields no URLs. For srcset descriptors only the
// first URL of each comma-separated candidate is taken.
func ExtractImageURLs(sel *goquery.Selection, base string) []string {
	if sel == nil || sel.Length() == 0 {
		return nil
	}

	var values []string
	sel.Each(func(_ int, img *goquery.Selection) {
		for _, attr := range imageAttrs {
			if val, ok := img.Attr(attr); ok && val != "" {
				values = append(values, val)
			}
		}
		for _, attr := range imageSetAttrs {
			val, ok := img.Attr(attr)
			if !ok || val == "" {
				continue
			}
			for _, candidate := range strings.Split(val, ",") {
				fields := strings.Fields(candidate)
				if len(fields) > 0 {
					values = append(values, fields[0])
				}
			}
		}
	})

	normalized := make([]string, 0, len(values))
	for _, val := range values {
		if url := NormalizeURL(val, base); url != "" {
			normalized = append(normalized, url)
		}
	}
	return DedupeURLs(normalized)
}

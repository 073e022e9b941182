package scrape

import "strings"

// NormalizeURL resolves a scraped URL candidate against a site base.
// Absolute http/https URLs pass through unchanged, protocol-relative
// URLs get https, and anything else is joined to base with exactly one
// slash. Empty or whitespace-only input yields "" rather than an error;
// markup is full of empty src attributes and they are not failures.
func NormalizeURL(value, base string) string {
	url := strings.TrimSpace(value)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(url, "/")
}

// DedupeURLs drops empty entries and exact duplicates, preserving
// first-seen order.
func DedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, url)
	}
	return unique
}

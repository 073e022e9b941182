// Package scrape holds the shared scraping machinery: the fetch
// pipeline every connector runs through, the HTTP fetcher with retry
// and throttling policy, and the text/URL normalisation helpers
// connectors use during extraction.
//
// The split matters for testability: fetching is impure and networked,
// extraction is pure. Connectors implement only extraction and page
// enumeration; everything transport-related lives here, in one place.
package scrape

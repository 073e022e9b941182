package driven

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// Connector holds the storefront-specific half of scraping: which pages
// to visit and how to turn one parsed page into items. Fetching,
// retries, throttling and failure isolation live in the fetch pipeline
// (internal/scrape), in exactly one place, so connectors stay pure and
// unit-testable against fixed HTML.
type Connector interface {
	// Shop returns the storefront identity this connector scrapes.
	// The orchestrator upserts it once per cycle.
	Shop() domain.Shop

	// Category is the product category this connector yields.
	Category() domain.Category

	// TargetURLs enumerates the listing pages to fetch, in order.
	// Paged connectors expand their page range here.
	TargetURLs() []string

	// Extract parses zero or more items out of one fetched page.
	// Items failing the connector's accessory or keyword filters are
	// silently dropped, not errored. Extract must not fetch; best-effort
	// enrichment fetches (detail-page galleries) go through the Fetcher
	// the connector was constructed with, and their failure must not
	// fail the item.
	Extract(doc *goquery.Document, pageURL string) []domain.ScrapedItem
}

// Fetcher retrieves one page over HTTP. Implementations own transport
// policy: timeout, retry with exponential backoff on retryable
// statuses, and proactive politeness throttling.
type Fetcher interface {
	// Fetch returns the response body for url.
	// Errors wrap domain.ErrFetchFailed once retries are exhausted.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

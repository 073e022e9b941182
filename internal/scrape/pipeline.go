package scrape

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/logger"
)

// Pipeline is the fixed per-connector scrape algorithm: enumerate
// target pages, fetch each one, parse it through the connector's
// extraction logic, and stream the resulting items. The algorithm is
// not overridable; connectors only supply pages and extraction.
//
// Failure semantics: a page that cannot be fetched or parsed is logged
// and skipped, never surfaced to the orchestrator. A connector yielding
// zero items over a whole run is not an error either; markup drift is
// detected from the data, not from the pipeline.
type Pipeline struct {
	fetcher driven.Fetcher
	delay   time.Duration
}

// NewPipeline creates a pipeline. delay throttles consecutive fetches
// for one connector, measured from the end of the previous request.
func NewPipeline(fetcher driven.Fetcher, delay time.Duration) *Pipeline {
	return &Pipeline{fetcher: fetcher, delay: delay}
}

// Run streams the connector's items lazily over the returned channel.
// The channel closes when every target page has been processed or ctx
// is cancelled. The sequence is not restartable: calling Run again
// re-fetches every page.
func (p *Pipeline) Run(ctx context.Context, conn driven.Connector) <-chan domain.ScrapedItem {
	items := make(chan domain.ScrapedItem)

	go func() {
		defer close(items)

		shop := conn.Shop().Code
		var lastFetchDone time.Time

		for _, url := range conn.TargetURLs() {
			if err := p.throttle(ctx, lastFetchDone); err != nil {
				return
			}

			body, err := p.fetcher.Fetch(ctx, url)
			lastFetchDone = time.Now()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("%s: skipping %s: %v", shop, url, err)
				continue
			}

			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
			if err != nil {
				logger.Warn("%s: unparseable page %s: %v", shop, url, err)
				continue
			}

			extracted := conn.Extract(doc, url)
			logger.Debug("%s: %d items from %s", shop, len(extracted), url)

			for _, item := range extracted {
				select {
				case <-ctx.Done():
					return
				case items <- item:
				}
			}
		}
	}()

	return items
}

// throttle waits out the remainder of the inter-request delay since the
// previous fetch finished.
func (p *Pipeline) throttle(ctx context.Context, lastFetchDone time.Time) error {
	if p.delay <= 0 || lastFetchDone.IsZero() {
		return nil
	}
	wait := p.delay - time.Since(lastFetchDone)
	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

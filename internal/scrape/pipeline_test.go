package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// fakeFetcher serves canned bodies per URL; missing URLs error.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(body), nil
}

// listConnector extracts one item per <li> element.
type listConnector struct {
	urls []string
}

func (c *listConnector) Shop() domain.Shop {
	return domain.Shop{Code: domain.ShopNeptun, Name: domain.ShopNeptun.Display()}
}

func (c *listConnector) Category() domain.Category { return domain.CategorySmartphone }

func (c *listConnector) TargetURLs() []string { return c.urls }

func (c *listConnector) Extract(doc *goquery.Document, pageURL string) []domain.ScrapedItem {
	var items []domain.ScrapedItem
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		name := s.Text()
		items = append(items, domain.ScrapedItem{
			SKU:        Slugify(name),
			Name:       name,
			Price:      100,
			Currency:   "EUR",
			ProductURL: pageURL,
			InStock:    true,
		})
	})
	return items
}

func collect(ch <-chan domain.ScrapedItem) []domain.ScrapedItem {
	var items []domain.ScrapedItem
	for item := range ch {
		items = append(items, item)
	}
	return items
}

func TestPipeline_StreamsItemsFromAllPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shop.test/p1": "<ul><li>iPhone 15</li><li>iPhone 16</li></ul>",
		"https://shop.test/p2": "<ul><li>iPhone 15 Pro</li></ul>",
	}}
	conn := &listConnector{urls: []string{"https://shop.test/p1", "https://shop.test/p2"}}

	items := collect(NewPipeline(fetcher, 0).Run(context.Background(), conn))

	assert.Len(t, items, 3)
	assert.Equal(t, "iphone-15", items[0].SKU)
	assert.Equal(t, "iphone-15-pro", items[2].SKU)
}

func TestPipeline_SkipsFailedPage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shop.test/p2": "<ul><li>iPhone 16</li></ul>",
	}}
	conn := &listConnector{urls: []string{"https://shop.test/p1", "https://shop.test/p2"}}

	items := collect(NewPipeline(fetcher, 0).Run(context.Background(), conn))

	// p1 failed and was skipped; p2 still produced its item.
	assert.Len(t, items, 1)
	assert.Equal(t, "iphone-16", items[0].SKU)
}

func TestPipeline_ZeroItemsIsNotAnError(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shop.test/p1": "<div>nothing matching</div>",
	}}
	conn := &listConnector{urls: []string{"https://shop.test/p1"}}

	items := collect(NewPipeline(fetcher, 0).Run(context.Background(), conn))
	assert.Empty(t, items)
}

func TestPipeline_CancelStopsStream(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://shop.test/p1": "<ul><li>a</li><li>b</li><li>c</li></ul>",
	}}
	conn := &listConnector{urls: []string{"https://shop.test/p1"}}

	ctx, cancel := context.WithCancel(context.Background())
	ch := NewPipeline(fetcher, 0).Run(ctx, conn)

	// Read one item, then cancel; the channel must close.
	<-ch
	cancel()
	for range ch { //nolint:revive // draining until close
	}
}

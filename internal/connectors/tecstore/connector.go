// Package tecstore scrapes the TecStore laptop listing.
package tecstore

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/scrape"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	baseURL    = "https://exampletecstore.com"
	listingURL = baseURL + "/laptops"
)

// Connector extracts laptop offers from TecStore's listing page. Unlike
// the phone listings it carries a stock signal in the card markup, so
// out-of-stock offers are recorded rather than skipped.
type Connector struct{}

// New creates a TecStore connector.
func New() *Connector {
	return &Connector{}
}

// Shop returns the storefront this connector serves.
func (c *Connector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopTecStore,
		Name:    domain.ShopTecStore.Display(),
		BaseURL: baseURL,
	}
}

// Category returns the product category of the listing.
func (c *Connector) Category() domain.Category {
	return domain.CategoryLaptop
}

// TargetURLs returns the listing pages to fetch.
func (c *Connector) TargetURLs() []string {
	return []string{listingURL}
}

// Extract parses product cards out of the listing page.
func (c *Connector) Extract(doc *goquery.Document, _ string) []domain.ScrapedItem {
	var items []domain.ScrapedItem

	doc.Find(".product-card").Each(func(_ int, card *goquery.Selection) {
		nameEl := card.Find(".title").First()
		priceEl := card.Find(".price").First()
		linkEl := card.Find("a").First()
		if nameEl.Length() == 0 || priceEl.Length() == 0 || linkEl.Length() == 0 {
			return
		}

		name := strings.TrimSpace(nameEl.Text())
		price, err := scrape.ParsePrice(priceEl.Text())
		if err != nil {
			return
		}

		inStock := !strings.Contains(strings.ToLower(card.Text()), "out of stock")

		href, _ := linkEl.Attr("href")
		items = append(items, domain.ScrapedItem{
			SKU:        scrape.Slugify(name),
			Name:       name,
			Price:      price,
			Currency:   "EUR",
			ProductURL: scrape.NormalizeURL(href, baseURL),
			InStock:    inStock,
		})
	})

	return items
}

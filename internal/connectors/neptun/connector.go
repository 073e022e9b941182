// Package neptun scrapes the Neptun Kosovo smartphone listing.
package neptun

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/scrape"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	baseURL  = "https://www.neptun-ks.com"
	pageURL  = baseURL + "/smartphone.nspx?brands=987&page=%d&priceRange=709_2799"
	maxPages = 5
	keyword  = "iphone"
)

// Connector extracts iPhone offers from Neptun's paginated listing.
type Connector struct{}

// New creates a Neptun connector.
func New() *Connector {
	return &Connector{}
}

// Shop returns the storefront this connector serves.
func (c *Connector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopNeptun,
		Name:    domain.ShopNeptun.Display(),
		BaseURL: baseURL,
	}
}

// Category returns the product category of the listing.
func (c *Connector) Category() domain.Category {
	return domain.CategorySmartphone
}

// TargetURLs returns the listing pages to fetch, in order.
func (c *Connector) TargetURLs() []string {
	urls := make([]string, 0, maxPages)
	for page := 1; page <= maxPages; page++ {
		urls = append(urls, fmt.Sprintf(pageURL, page))
	}
	return urls
}

// Extract parses product cards out of a listing page. Cards missing a
// name, price or link are skipped, as are accessories and anything
// that is not an iPhone.
func (c *Connector) Extract(doc *goquery.Document, _ string) []domain.ScrapedItem {
	var items []domain.ScrapedItem

	doc.Find(".product-item, .product, .item").Each(func(_ int, card *goquery.Selection) {
		nameEl := card.Find(".product-name, .product-title, h3 a").First()
		priceEl := card.Find(".price, .product-price, .current-price").First()
		linkEl := card.Find("a").First()
		if nameEl.Length() == 0 || priceEl.Length() == 0 || linkEl.Length() == 0 {
			return
		}

		name := strings.TrimSpace(nameEl.Text())
		if !scrape.MatchesKeyword(name, keyword) || scrape.LooksLikeAccessory(name) {
			return
		}

		price, err := scrape.ParsePrice(priceEl.Text())
		if err != nil {
			return
		}

		href, _ := linkEl.Attr("href")
		items = append(items, domain.ScrapedItem{
			SKU:        scrape.Slugify(name),
			Name:       name,
			Price:      price,
			Currency:   "EUR",
			ProductURL: scrape.NormalizeURL(href, baseURL),
			InStock:    true,
			Brand:      "Apple",
		})
	})

	return items
}

// Package shopaz scrapes the ShopAz Apple phone listing.
package shopaz

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
	baseURL  = "https://shopaz.com"
	pageURL  = baseURL + "/al/category/elektronike/10?category-2=telefon---tablet&sort=release%%3Adesc&brand=apple&page=%d"
	maxPages = 4
	keyword  = "iphone"
)

// Connector extracts iPhone offers from ShopAz's paginated listing.
type Connector struct{}

// New creates a ShopAz connector.
func New() *Connector {
	return &Connector{}
}

// Shop returns the storefront this connector serves.
func (c *Connector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopShopAz,
		Name:    domain.ShopShopAz.Display(),
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

// Extract parses product cards out of a listing page.
func (c *Connector) Extract(doc *goquery.Document, _ string) []domain.ScrapedItem {
	var items []domain.ScrapedItem

	doc.Find(".product-item, .product, .col").Each(func(_ int, card *goquery.Selection) {
		nameEl := card.Find(".product-name a, .title a, h3 a").First()
		priceEl := card.Find(".price, .product-price, .current-price").First()
		linkEl := nameEl
		if linkEl.Length() == 0 {
			linkEl = card.Find("a").First()
		}
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

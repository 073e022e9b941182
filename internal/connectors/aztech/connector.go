// Package aztech scrapes the Aztech Online phone and tablet listing.
package aztech

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
	baseURL  = "https://aztechonline.com"
	pageURL  = baseURL + "/telefon-tablete?limit=20&Brendi_Telelefona=17178&page=%d"
	maxPages = 5
	keyword  = "iphone"
)

// Connector extracts iPhone offers from Aztech's paginated listing,
// including the card thumbnail when one is present.
type Connector struct{}

// New creates an Aztech connector.
func New() *Connector {
	return &Connector{}
}

// Shop returns the storefront this connector serves.
func (c *Connector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopAztech,
		Name:    domain.ShopAztech.Display(),
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

	doc.Find(".product-layout, .product-grid, .product-item").Each(func(_ int, card *goquery.Selection) {
		nameEl := card.Find(".caption a, .name a, h4 a").First()
		priceEl := card.Find(".price, .price-new, .product-price").First()
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

		var imageURL string
		if urls := scrape.ExtractImageURLs(card.Find("img").First(), baseURL); len(urls) > 0 {
			imageURL = urls[0]
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
			ImageURL:   imageURL,
		})
	})

	return items
}

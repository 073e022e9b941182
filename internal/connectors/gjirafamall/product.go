package gjirafamall

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/scrape"
)

// Ensure ProductConnector implements the interface.
var _ driven.Connector = (*ProductConnector)(nil)

// productURL is the pinned iPhone 15 128GB Black detail page, tracked
// directly because the listing occasionally drops it.
const productURL = baseURL + "/apple-iphone-15-128gb-black"

// productGallerySelector matches every thumbnail strip variant plus a
// bare img fallback for the detail page.
const productGallerySelector = ".picture-thumbs img, .product-thumbs img, .product-gallery img, .gallery-thumbs img, img"

// ProductConnector extracts a single offer from one pinned GjirafaMall
// product page.
type ProductConnector struct{}

// NewProduct creates the pinned-product connector.
func NewProduct() *ProductConnector {
	return &ProductConnector{}
}

// Shop returns the storefront this connector serves.
func (c *ProductConnector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopGjirafaMall,
		Name:    domain.ShopGjirafaMall.Display(),
		BaseURL: baseURL,
	}
}

// Category returns the product category of the pinned page.
func (c *ProductConnector) Category() domain.Category {
	return domain.CategorySmartphone
}

// TargetURLs returns the single product page.
func (c *ProductConnector) TargetURLs() []string {
	return []string{productURL}
}

// Extract lifts the one offer out of the product detail page. A page
// without a recognisable name and price yields nothing.
func (c *ProductConnector) Extract(doc *goquery.Document, _ string) []domain.ScrapedItem {
	container := doc.Find("section.product-essential").First()

	nameEl := container.Find("div.overview.product-details h1").First()
	if nameEl.Length() == 0 {
		nameEl = doc.Find("h1").First()
	}
	priceEl := doc.Find("[id^=price-value-]").First()
	if priceEl.Length() == 0 {
		priceEl = doc.Find(".actual-price, .price, .product-price").First()
	}
	if nameEl.Length() == 0 || priceEl.Length() == 0 {
		return nil
	}

	name := strings.TrimSpace(nameEl.Text())
	if scrape.LooksLikeAccessory(name) {
		return nil
	}

	price, err := scrape.ParsePrice(priceEl.Text())
	if err != nil {
		return nil
	}

	var imageURLs []string
	doc.Find(productGallerySelector).Each(func(_ int, img *goquery.Selection) {
		imageURLs = append(imageURLs, scrape.ExtractImageURLs(img, baseURL)...)
	})
	imageURLs = scrape.DedupeURLs(imageURLs)

	var imageURL string
	if len(imageURLs) > 0 {
		imageURL = imageURLs[0]
	}

	return []domain.ScrapedItem{{
		SKU:        scrape.Slugify(name),
		Name:       name,
		Price:      price,
		Currency:   "EUR",
		ProductURL: productURL,
		InStock:    true,
		Brand:      "Apple",
		ImageURL:   imageURL,
		ImageURLs:  imageURLs,
	}}
}

// Package gjirafamall scrapes GjirafaMall, both the paginated phone
// listing and a pinned single-product page. GjirafaMall is the only
// storefront that exposes image galleries, through JSON data
// attributes on the card or, failing that, the product detail page.
package gjirafamall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/scrape"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	baseURL  = "https://gjirafamall.com"
	pageURL  = baseURL + "/celular-teknologji?pagenumber=%d&orderby=&hls=false&is=false&hd=false"
	maxPages = 5
	keyword  = "iphone"

	// galleryTimeout bounds a single detail-page fetch during
	// enrichment; enrichment is best effort and must not stall a cycle.
	galleryTimeout = 20 * time.Second
)

// galleryAttrs are card attributes that may carry image URL payloads,
// either as a JSON array, a JSON object with an images/gallery key, or
// a plain comma-separated list.
var galleryAttrs = []string{"data-images", "data-gallery", "data-pictures", "data-thumbs"}

// gallerySelectors locate thumbnail strips on a product detail page,
// most specific first.
var gallerySelectors = []string{
	".picture-thumbs img",
	".product-thumbs img",
	".product-gallery img",
	".gallery-thumbs img",
	".product-essential img",
}

// Connector extracts iPhone offers from GjirafaMall's paginated
// listing. With a fetcher attached, cards without inline gallery data
// get their image URLs from the product detail page.
type Connector struct {
	fetcher driven.Fetcher
}

// New creates a GjirafaMall listing connector. fetcher may be nil, in
// which case detail-page gallery enrichment is disabled.
func New(fetcher driven.Fetcher) *Connector {
	return &Connector{fetcher: fetcher}
}

// Shop returns the storefront this connector serves.
func (c *Connector) Shop() domain.Shop {
	return domain.Shop{
		Code:    domain.ShopGjirafaMall,
		Name:    domain.ShopGjirafaMall.Display(),
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

	doc.Find(".product-item, .item-box, .product").Each(func(_ int, card *goquery.Selection) {
		nameEl := card.Find(".product-title a, .product-name a, h2 a").First()
		priceEl := card.Find(".actual-price, .price, .product-price").First()
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
		productURL := scrape.NormalizeURL(href, baseURL)

		imageURLs := scrape.ExtractImageURLs(card.Find("img").First(), baseURL)
		imageURLs = append(imageURLs, galleryFromAttrs(card)...)
		if len(imageURLs) == 0 {
			imageURLs = c.galleryFromDetailPage(productURL)
		}
		imageURLs = scrape.DedupeURLs(imageURLs)

		var imageURL string
		if len(imageURLs) > 0 {
			imageURL = imageURLs[0]
		}

		items = append(items, domain.ScrapedItem{
			SKU:        scrape.Slugify(name),
			Name:       name,
			Price:      price,
			Currency:   "EUR",
			ProductURL: productURL,
			InStock:    true,
			Brand:      "Apple",
			ImageURL:   imageURL,
			ImageURLs:  imageURLs,
		})
	})

	return items
}

// galleryFromAttrs decodes image URLs out of the card's gallery data
// attributes.
func galleryFromAttrs(card *goquery.Selection) []string {
	var urls []string
	for _, attr := range galleryAttrs {
		raw, ok := card.Attr(attr)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		for _, u := range decodeGalleryPayload(raw) {
			if normalized := scrape.NormalizeURL(u, baseURL); normalized != "" {
				urls = append(urls, normalized)
			}
		}
	}
	return urls
}

// decodeGalleryPayload interprets a gallery attribute value. Invalid
// JSON falls back to a comma-separated list.
func decodeGalleryPayload(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}

	var obj struct {
		Images  []string `json:"images"`
		Gallery []string `json:"gallery"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		if len(obj.Images) > 0 {
			return obj.Images
		}
		return obj.Gallery
	}

	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// galleryFromDetailPage fetches the product page and harvests its
// thumbnail strip. Best effort: any failure yields no images.
func (c *Connector) galleryFromDetailPage(productURL string) []string {
	if c.fetcher == nil || productURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), galleryTimeout)
	defer cancel()

	body, err := c.fetcher.Fetch(ctx, productURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	for _, selector := range gallerySelectors {
		imgs := doc.Find(selector)
		if imgs.Length() == 0 {
			continue
		}
		var urls []string
		imgs.Each(func(_ int, img *goquery.Selection) {
			urls = append(urls, scrape.ExtractImageURLs(img, baseURL)...)
		})
		if len(urls) > 0 {
			return scrape.DedupeURLs(urls)
		}
	}
	return nil
}

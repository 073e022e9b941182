package neptun

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

const listingHTML = `
<html><body>
<div class="product-item">
  <h3><a href="/products/iphone-15-pro-128gb">iPhone 15 Pro 128GB</a></h3>
  <span class="price">1.219,00 €</span>
</div>
<div class="product-item">
  <h3><a href="/products/iphone-15-case">iPhone 15 Silicone Case</a></h3>
  <span class="price">39,00 €</span>
</div>
<div class="product-item">
  <h3><a href="/products/galaxy-s24">Samsung Galaxy S24</a></h3>
  <span class="price">899,00 €</span>
</div>
<div class="product-item">
  <h3><a href="/products/iphone-16">iPhone 16 128GB</a></h3>
</div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestConnector_Metadata(t *testing.T) {
	c := New()

	shop := c.Shop()
	assert.Equal(t, domain.ShopNeptun, shop.Code)
	assert.Equal(t, domain.CategorySmartphone, c.Category())

	urls := c.TargetURLs()
	require.Len(t, urls, 5)
	assert.Contains(t, urls[0], "page=1")
	assert.Contains(t, urls[4], "page=5")
}

func TestConnector_Extract(t *testing.T) {
	items := New().Extract(parseDoc(t, listingHTML), "https://www.neptun-ks.com/smartphone.nspx")

	// Accessory, non-iPhone and priceless cards all drop out.
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "iphone-15-pro-128gb", item.SKU)
	assert.Equal(t, "iPhone 15 Pro 128GB", item.Name)
	assert.Equal(t, 1219.0, item.Price)
	assert.Equal(t, "EUR", item.Currency)
	assert.Equal(t, "https://www.neptun-ks.com/products/iphone-15-pro-128gb", item.ProductURL)
	assert.True(t, item.InStock)
	assert.Equal(t, "Apple", item.Brand)
}

func TestConnector_Extract_EmptyPage(t *testing.T) {
	items := New().Extract(parseDoc(t, "<html><body></body></html>"), "")
	assert.Empty(t, items)
}

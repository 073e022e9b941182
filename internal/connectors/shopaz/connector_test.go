package shopaz

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
  <div class="product-name"><a href="/al/product/iphone-16-pro-max">iPhone 16 Pro Max 256GB</a></div>
  <div class="price">1,399.00</div>
</div>
<div class="product-item">
  <div class="product-name"><a href="/al/product/xhami-mbrojtes">Xhami Mbrojtës iPhone 16</a></div>
  <div class="price">15.00</div>
</div>
<div class="product-item">
  <div class="product-name"><a href="https://shopaz.com/al/product/iphone-15">iPhone 15 128GB</a></div>
  <div class="price">829.00</div>
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
	assert.Equal(t, domain.ShopShopAz, c.Shop().Code)
	assert.Equal(t, domain.CategorySmartphone, c.Category())

	urls := c.TargetURLs()
	require.Len(t, urls, 4)
	assert.Contains(t, urls[0], "brand=apple")
	assert.Contains(t, urls[3], "page=4")
}

func TestConnector_Extract(t *testing.T) {
	items := New().Extract(parseDoc(t, listingHTML), "")

	require.Len(t, items, 2, "screen protector filtered out")
	assert.Equal(t, "iphone-16-pro-max-256gb", items[0].SKU)
	assert.Equal(t, 1399.0, items[0].Price)
	assert.Equal(t, "https://shopaz.com/al/product/iphone-16-pro-max", items[0].ProductURL)

	// Absolute hrefs pass through untouched.
	assert.Equal(t, "https://shopaz.com/al/product/iphone-15", items[1].ProductURL)
	assert.Equal(t, 829.0, items[1].Price)
}

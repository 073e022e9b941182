package aztech

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
<div class="product-layout">
  <div class="caption"><a href="/iphone-15-pro">iPhone 15 Pro 256GB</a></div>
  <span class="price-new">1.099,00€</span>
  <img data-src="/image/cache/iphone-15-pro-228x228.jpg" src="/image/placeholder.png">
</div>
<div class="product-layout">
  <div class="caption"><a href="/iphone-14">iPhone 14 128GB</a></div>
  <span class="price">729,00€</span>
  <img srcset="//cdn.aztechonline.com/iphone-14-228.jpg 228w, //cdn.aztechonline.com/iphone-14-456.jpg 456w">
</div>
<div class="product-layout">
  <div class="caption"><a href="/spigen-ultra">Spigen Ultra Hybrid iPhone 15</a></div>
  <span class="price">29,00€</span>
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
	assert.Equal(t, domain.ShopAztech, c.Shop().Code)
	assert.Equal(t, domain.CategorySmartphone, c.Category())
	require.Len(t, c.TargetURLs(), 5)
}

func TestConnector_Extract(t *testing.T) {
	items := New().Extract(parseDoc(t, listingHTML), "")

	require.Len(t, items, 2, "accessory filtered out")

	assert.Equal(t, "iphone-15-pro-256gb", items[0].SKU)
	assert.Equal(t, 1099.0, items[0].Price)
	assert.Equal(t, "https://aztechonline.com/iphone-15-pro", items[0].ProductURL)
	assert.Equal(t, "https://aztechonline.com/image/cache/iphone-15-pro-228x228.jpg", items[0].ImageURL,
		"lazy-load attribute preferred over src")

	assert.Equal(t, "iphone-14-128gb", items[1].SKU)
	assert.Equal(t, "https://cdn.aztechonline.com/iphone-14-228.jpg", items[1].ImageURL,
		"first srcset candidate, protocol-relative resolved")
}

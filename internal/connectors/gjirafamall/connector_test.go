package gjirafamall

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// fakeFetcher serves canned detail pages by URL.
type fakeFetcher struct {
	pages map[string]string
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls++
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(html), nil
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const cardWithInlineGallery = `
<html><body>
<div class="product-item" data-images='["/media/iphone-15-front.jpg","/media/iphone-15-back.jpg"]'>
  <div class="product-title"><a href="/apple-iphone-15-128gb-black">Apple iPhone 15 128GB Black</a></div>
  <div class="actual-price">829,00 €</div>
</div>
</body></html>`

const cardWithoutGallery = `
<html><body>
<div class="product-item">
  <div class="product-title"><a href="/apple-iphone-15-128gb-black">Apple iPhone 15 128GB Black</a></div>
  <div class="actual-price">829,00 €</div>
</div>
</body></html>`

const detailPageHTML = `
<html><body>
<div class="picture-thumbs">
  <img src="/media/gallery-1.jpg">
  <img data-src="/media/gallery-2.jpg">
</div>
</body></html>`

func TestConnector_Metadata(t *testing.T) {
	c := New(nil)
	assert.Equal(t, domain.ShopGjirafaMall, c.Shop().Code)
	assert.Equal(t, domain.CategorySmartphone, c.Category())

	urls := c.TargetURLs()
	require.Len(t, urls, 5)
	assert.Contains(t, urls[0], "pagenumber=1")
}

func TestConnector_Extract_InlineGalleryAttr(t *testing.T) {
	fetcher := &fakeFetcher{}
	items := New(fetcher).Extract(parseDoc(t, cardWithInlineGallery), "")

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "apple-iphone-15-128gb-black", item.SKU)
	assert.Equal(t, 829.0, item.Price)
	assert.Equal(t, []string{
		"https://gjirafamall.com/media/iphone-15-front.jpg",
		"https://gjirafamall.com/media/iphone-15-back.jpg",
	}, item.ImageURLs)
	assert.Equal(t, "https://gjirafamall.com/media/iphone-15-front.jpg", item.ImageURL)
	assert.Zero(t, fetcher.calls, "inline gallery data avoids the detail fetch")
}

func TestConnector_Extract_DetailPageFallback(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://gjirafamall.com/apple-iphone-15-128gb-black": detailPageHTML,
	}}
	items := New(fetcher).Extract(parseDoc(t, cardWithoutGallery), "")

	require.Len(t, items, 1)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{
		"https://gjirafamall.com/media/gallery-1.jpg",
		"https://gjirafamall.com/media/gallery-2.jpg",
	}, items[0].ImageURLs)
}

func TestConnector_Extract_FetchFailureYieldsNoImages(t *testing.T) {
	fetcher := &fakeFetcher{}
	items := New(fetcher).Extract(parseDoc(t, cardWithoutGallery), "")

	require.Len(t, items, 1)
	assert.Empty(t, items[0].ImageURLs)
	assert.Empty(t, items[0].ImageURL)
}

func TestConnector_Extract_NilFetcher(t *testing.T) {
	items := New(nil).Extract(parseDoc(t, cardWithoutGallery), "")
	require.Len(t, items, 1)
	assert.Empty(t, items[0].ImageURLs)
}

func TestDecodeGalleryPayload(t *testing.T) {
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, decodeGalleryPayload(`["/a.jpg","/b.jpg"]`))
	assert.Equal(t, []string{"/a.jpg"}, decodeGalleryPayload(`{"images":["/a.jpg"]}`))
	assert.Equal(t, []string{"/g.jpg"}, decodeGalleryPayload(`{"gallery":["/g.jpg"]}`))
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, decodeGalleryPayload("/a.jpg, /b.jpg"))
}

package domain

// Product is a tracked product. Products are long-lived reference
// entities: ingest upserts them on every cycle (last write wins for
// mutable fields) and never deletes them.
type Product struct {
	// ID is the persistent identifier assigned by the store.
	ID string

	// SKU is the stable slug derived from the normalised product name.
	// Unique across all products.
	SKU string

	// Name is the display name as scraped.
	Name string

	// Category classifies the product.
	Category Category

	// Brand is the manufacturer, when known.
	Brand string

	// ImageURL is the primary product image, when one was found.
	ImageURL string

	// ImageURLs is the ordered gallery of alternate images.
	// First-seen order from the scrape; no duplicates.
	ImageURLs []string
}

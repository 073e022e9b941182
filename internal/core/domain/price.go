package domain

import "time"

// PricePoint is one immutable price observation for a (product, shop)
// pair. Observations are append-only: the "current" price is always
// derived as the most recent observation within the partition, never
// stored directly. Ties at the same timestamp resolve to the latest
// inserted observation.
type PricePoint struct {
	// ID is the persistent identifier assigned by the store.
	// Stores assign monotonically increasing IDs per insert, which is
	// what breaks ordering ties between same-timestamp observations.
	ID string

	// ProductSKU links the observation to a product.
	ProductSKU string

	// Shop is the storefront the price was observed at.
	Shop ShopCode

	// Price is the observed amount, rounded to two decimals before
	// persistence by the pricing strategy chain.
	Price float64

	// Currency is the ISO 4217 code, uppercase.
	Currency string

	// ProductURL is the listing the price was scraped from.
	ProductURL string

	// InStock reports the availability shown at observation time.
	InStock bool

	// ObservedAt is the cycle timestamp. Every observation written in
	// one ingest cycle shares the same value so a cycle's prices are
	// comparable as a cohort.
	ObservedAt time.Time
}

// ScrapedItem is a connector's intermediate output: one listing parsed
// from a storefront page. It is the contract boundary between site
// connectors and the rest of the pipeline, and is never persisted.
type ScrapedItem struct {
	SKU        string
	Name       string
	Price      float64
	Currency   string
	ProductURL string
	InStock    bool
	Brand      string
	ImageURL   string
	ImageURLs  []string
}

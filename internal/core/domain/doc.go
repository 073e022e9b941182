// Package domain defines the core business entities for Pricewatch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Product: A tracked product, identified by a slug-derived SKU
//   - Shop: A storefront being scraped, identified by a stable code
//   - PricePoint: An immutable price observation for a (product, shop) pair
//   - ScrapedItem: A connector's intermediate output before persistence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

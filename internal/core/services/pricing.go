package services

import (
	"math"
	"strings"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// PriceStrategy is a pure transform applied to each observation before
// persistence. Strategies take and return values; they never mutate
// their input. Application order is the configured chain order.
type PriceStrategy interface {
	Apply(price domain.PricePoint) domain.PricePoint
}

// NormalizeCurrency uppercases the currency code and substitutes the
// configured default when none was scraped.
type NormalizeCurrency struct {
	Default string
}

// Apply implements PriceStrategy.
func (s NormalizeCurrency) Apply(price domain.PricePoint) domain.PricePoint {
	currency := strings.TrimSpace(price.Currency)
	if currency == "" {
		currency = s.Default
	}
	price.Currency = strings.ToUpper(currency)
	return price
}

// RoundPrice rounds the amount to two decimal places.
type RoundPrice struct{}

// Apply implements PriceStrategy.
func (RoundPrice) Apply(price domain.PricePoint) domain.PricePoint {
	price.Price = math.Round(price.Price*100) / 100
	return price
}

// ApplyStrategies runs the chain in order and returns the transformed
// observation.
func ApplyStrategies(price domain.PricePoint, strategies []PriceStrategy) domain.PricePoint {
	for _, strategy := range strategies {
		price = strategy.Apply(price)
	}
	return price
}

// DefaultStrategies is the standard pre-persistence chain: currency
// normalisation, then rounding. Idempotent over already-normalised
// observations.
func DefaultStrategies(defaultCurrency string) []PriceStrategy {
	return []PriceStrategy{
		NormalizeCurrency{Default: defaultCurrency},
		RoundPrice{},
	}
}

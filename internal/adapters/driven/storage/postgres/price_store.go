package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// priceStore implements driven.PriceStore.
type priceStore struct {
	store *Store
}

var _ driven.PriceStore = (*priceStore)(nil)

// priceColumns is the scan column list shared by every price query.
const priceColumns = "id, product_sku, shop_code, price, currency, product_url, in_stock, observed_at"

// Add appends one observation. Rows are never updated or deleted; the
// assigned sequence id breaks same-timestamp ordering ties.
func (s *priceStore) Add(ctx context.Context, price domain.PricePoint, productID, shopID string) (string, error) {
	if price.ProductSKU == "" || price.Shop == "" {
		return "", domain.ErrInvalidInput
	}

	var id int64
	row := s.store.pool.QueryRow(ctx, `
		INSERT INTO prices (product_id, shop_id, product_sku, shop_code, price, currency, product_url, in_stock, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, nullString(productID), nullString(shopID),
		price.ProductSKU, string(price.Shop), price.Price, price.Currency,
		nullString(price.ProductURL), price.InStock, price.ObservedAt.UTC())
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("adding price: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// LatestForProduct returns each shop's most recent observation for the
// SKU, cheapest first.
func (s *priceStore) LatestForProduct(ctx context.Context, sku string) ([]domain.PricePoint, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT `+priceColumns+` FROM (
			SELECT `+priceColumns+`,
				ROW_NUMBER() OVER (PARTITION BY shop_code ORDER BY observed_at DESC, id DESC) AS rn
			FROM prices
			WHERE product_sku = $1
		) latest WHERE rn = 1
		ORDER BY price ASC
	`, sku)
	if err != nil {
		return nil, fmt.Errorf("querying latest prices: %w", err)
	}
	return collectPrices(rows)
}

// HistoryForProduct returns observations for the SKU, newest first.
func (s *priceStore) HistoryForProduct(ctx context.Context, sku string, limit int) ([]domain.PricePoint, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT `+priceColumns+`
		FROM prices
		WHERE product_sku = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT $2
	`, sku, limit)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	return collectPrices(rows)
}

// CheapestByCategory takes the most recent observation per
// (product, shop) across the category and returns the limit cheapest.
func (s *priceStore) CheapestByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.PricePoint, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT `+priceColumns+` FROM (
			SELECT pr.id, pr.product_sku, pr.shop_code, pr.price, pr.currency,
				pr.product_url, pr.in_stock, pr.observed_at,
				ROW_NUMBER() OVER (PARTITION BY pr.product_sku, pr.shop_code ORDER BY pr.observed_at DESC, pr.id DESC) AS rn
			FROM prices pr
			JOIN products p ON p.sku = pr.product_sku
			WHERE p.category = $1
		) latest WHERE rn = 1
		ORDER BY price ASC
		LIMIT $2
	`, string(category), limit)
	if err != nil {
		return nil, fmt.Errorf("querying cheapest prices: %w", err)
	}
	return collectPrices(rows)
}

// LatestForProducts returns latest observations per shop for each SKU.
// SKUs with no observations are absent from the map.
func (s *priceStore) LatestForProducts(ctx context.Context, skus []string) (map[string][]domain.PricePoint, error) {
	result := make(map[string][]domain.PricePoint, len(skus))
	for _, sku := range skus {
		points, err := s.LatestForProduct(ctx, sku)
		if err != nil {
			return nil, err
		}
		if len(points) > 0 {
			result[sku] = points
		}
	}
	return result, nil
}

// collectPrices drains rows into price points.
func collectPrices(rows pgx.Rows) ([]domain.PricePoint, error) {
	defer rows.Close()

	var points []domain.PricePoint //nolint:prealloc // size unknown from query
	for rows.Next() {
		point, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prices: %w", err)
	}
	return points, nil
}

// scanPrice scans one observation from pgx.Rows.
func scanPrice(rows pgx.Rows) (*domain.PricePoint, error) {
	var point domain.PricePoint
	var id int64
	var shopCode string
	var productURL *string

	if err := rows.Scan(&id, &point.ProductSKU, &shopCode, &point.Price,
		&point.Currency, &productURL, &point.InStock, &point.ObservedAt); err != nil {
		return nil, fmt.Errorf("scanning price: %w", err)
	}

	point.ID = strconv.FormatInt(id, 10)
	point.Shop = domain.ShopCode(shopCode)
	if productURL != nil {
		point.ProductURL = *productURL
	}
	return &point, nil
}

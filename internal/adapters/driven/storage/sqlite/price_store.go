package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

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
// assigned autoincrement id breaks same-timestamp ordering ties.
func (s *priceStore) Add(ctx context.Context, price domain.PricePoint, productID, shopID string) (string, error) {
	if price.ProductSKU == "" || price.Shop == "" {
		return "", domain.ErrInvalidInput
	}

	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO prices (product_id, shop_id, product_sku, shop_code, price, currency, product_url, in_stock, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullString(productID), nullString(shopID),
		price.ProductSKU, string(price.Shop), price.Price, price.Currency,
		nullString(price.ProductURL), boolToInt(price.InStock),
		price.ObservedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("adding price: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading price id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// LatestForProduct returns each shop's most recent observation for the
// SKU, cheapest first.
func (s *priceStore) LatestForProduct(ctx context.Context, sku string) ([]domain.PricePoint, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+priceColumns+` FROM (
			SELECT `+priceColumns+`,
				ROW_NUMBER() OVER (PARTITION BY shop_code ORDER BY observed_at DESC, id DESC) AS rn
			FROM prices
			WHERE product_sku = ?
		) WHERE rn = 1
		ORDER BY price ASC
	`, sku)
	if err != nil {
		return nil, fmt.Errorf("querying latest prices: %w", err)
	}
	return collectPrices(rows)
}

// HistoryForProduct returns observations for the SKU, newest first.
func (s *priceStore) HistoryForProduct(ctx context.Context, sku string, limit int) ([]domain.PricePoint, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+priceColumns+`
		FROM prices
		WHERE product_sku = ?
		ORDER BY observed_at DESC, id DESC
		LIMIT ?
	`, sku, limit)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	return collectPrices(rows)
}

// CheapestByCategory takes the most recent observation per
// (product, shop) across the category and returns the limit cheapest.
func (s *priceStore) CheapestByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.PricePoint, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+priceColumns+` FROM (
			SELECT pr.id AS id, pr.product_sku AS product_sku, pr.shop_code AS shop_code,
				pr.price AS price, pr.currency AS currency, pr.product_url AS product_url,
				pr.in_stock AS in_stock, pr.observed_at AS observed_at,
				ROW_NUMBER() OVER (PARTITION BY pr.product_sku, pr.shop_code ORDER BY pr.observed_at DESC, pr.id DESC) AS rn
			FROM prices pr
			JOIN products p ON p.sku = pr.product_sku
			WHERE p.category = ?
		) WHERE rn = 1
		ORDER BY price ASC
		LIMIT ?
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
func collectPrices(rows *sql.Rows) ([]domain.PricePoint, error) {
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

// scanPrice scans one observation from *sql.Rows.
func scanPrice(rows *sql.Rows) (*domain.PricePoint, error) {
	var point domain.PricePoint
	var id int64
	var shopCode, observedAt string
	var productURL sql.NullString
	var inStock int

	if err := rows.Scan(&id, &point.ProductSKU, &shopCode, &point.Price,
		&point.Currency, &productURL, &inStock, &observedAt); err != nil {
		return nil, fmt.Errorf("scanning price: %w", err)
	}

	point.ID = strconv.FormatInt(id, 10)
	point.Shop = domain.ShopCode(shopCode)
	point.ProductURL = productURL.String
	point.InStock = inStock == 1
	if t, err := time.Parse(time.RFC3339, observedAt); err == nil {
		point.ObservedAt = t
	}
	return &point, nil
}

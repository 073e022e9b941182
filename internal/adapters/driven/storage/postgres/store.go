// Package postgres provides Postgres-backed implementations of the
// driven storage ports, for deployments where the database outlives
// the host running the tracker. Mirrors the sqlite package's layout
// and query shape on top of a pgx connection pool.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Store is a unified Postgres-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database given by dsn and runs pending
// migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty postgres dsn", domain.ErrInvalidInput)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ProductStore returns a ProductStore interface backed by this store.
func (s *Store) ProductStore() driven.ProductStore {
	return &productStore{store: s}
}

// ShopStore returns a ShopStore interface backed by this store.
func (s *Store) ShopStore() driven.ShopStore {
	return &shopStore{store: s}
}

// PriceStore returns a PriceStore interface backed by this store.
func (s *Store) PriceStore() driven.PriceStore {
	return &priceStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(ctx context.Context, fsys embed.FS) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Product Store ====================

// productStore implements driven.ProductStore.
type productStore struct {
	store *Store
}

var _ driven.ProductStore = (*productStore)(nil)

// Upsert stores or updates a product keyed by SKU and returns its id.
func (s *productStore) Upsert(ctx context.Context, product domain.Product) (string, error) {
	if product.SKU == "" {
		return "", domain.ErrInvalidInput
	}

	imagesJSON, err := json.Marshal(product.ImageURLs)
	if err != nil {
		return "", fmt.Errorf("marshalling image urls: %w", err)
	}

	now := time.Now().UTC()
	var id int64
	row := s.store.pool.QueryRow(ctx, `
		INSERT INTO products (sku, name, category, brand, image_url, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (sku) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			brand = excluded.brand,
			image_url = excluded.image_url,
			image_urls = excluded.image_urls,
			updated_at = excluded.updated_at
		RETURNING id
	`, product.SKU, product.Name, string(product.Category),
		nullString(product.Brand), nullString(product.ImageURL), string(imagesJSON), now)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("upserting product: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// GetBySKU retrieves a product by SKU.
func (s *productStore) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := s.store.pool.QueryRow(ctx, `
		SELECT id, sku, name, category, brand, image_url, image_urls
		FROM products WHERE sku = $1
	`, sku)

	product, err := scanProduct(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return product, nil
}

// Search returns products whose name matches the query, all products
// when the query is empty.
func (s *productStore) Search(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT id, sku, name, category, brand, image_url, image_urls
		FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY sku
	`, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product //nolint:prealloc // size unknown from query
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

// scanProduct scans one product row through the given scan func.
func scanProduct(scan func(...any) error) (*domain.Product, error) {
	var product domain.Product
	var id int64
	var category string
	var brand, imageURL *string
	var imagesJSON []byte

	if err := scan(&id, &product.SKU, &product.Name, &category, &brand, &imageURL, &imagesJSON); err != nil {
		return nil, err
	}

	product.ID = strconv.FormatInt(id, 10)
	product.Category = domain.Category(category)
	if brand != nil {
		product.Brand = *brand
	}
	if imageURL != nil {
		product.ImageURL = *imageURL
	}
	if len(imagesJSON) > 0 && string(imagesJSON) != "null" {
		if err := json.Unmarshal(imagesJSON, &product.ImageURLs); err != nil {
			return nil, fmt.Errorf("unmarshaling image urls: %w", err)
		}
	}
	return &product, nil
}

// ==================== Shop Store ====================

// shopStore implements driven.ShopStore.
type shopStore struct {
	store *Store
}

var _ driven.ShopStore = (*shopStore)(nil)

// Upsert stores or updates a shop keyed by code and returns its id.
func (s *shopStore) Upsert(ctx context.Context, shop domain.Shop) (string, error) {
	if shop.Code == "" {
		return "", domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var id int64
	row := s.store.pool.QueryRow(ctx, `
		INSERT INTO shops (code, name, base_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (code) DO UPDATE SET
			name = excluded.name,
			base_url = excluded.base_url,
			updated_at = excluded.updated_at
		RETURNING id
	`, string(shop.Code), shop.Name, nullString(shop.BaseURL), now)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("upserting shop: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// List returns all registered shops ordered by code.
func (s *shopStore) List(ctx context.Context) ([]domain.Shop, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT id, code, name, base_url FROM shops ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("querying shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop //nolint:prealloc // size unknown from query
	for rows.Next() {
		shop, err := scanShop(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning shop: %w", err)
		}
		shops = append(shops, *shop)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shops: %w", err)
	}
	return shops, nil
}

// GetByCode retrieves a shop by its stable code.
func (s *shopStore) GetByCode(ctx context.Context, code domain.ShopCode) (*domain.Shop, error) {
	row := s.store.pool.QueryRow(ctx, `
		SELECT id, code, name, base_url FROM shops WHERE code = $1
	`, string(code))

	shop, err := scanShop(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning shop: %w", err)
	}
	return shop, nil
}

// scanShop scans one shop row through the given scan func.
func scanShop(scan func(...any) error) (*domain.Shop, error) {
	var shop domain.Shop
	var id int64
	var code string
	var baseURL *string

	if err := scan(&id, &code, &shop.Name, &baseURL); err != nil {
		return nil, err
	}

	shop.ID = strconv.FormatInt(id, 10)
	shop.Code = domain.ShopCode(code)
	if baseURL != nil {
		shop.BaseURL = *baseURL
	}
	return &shop, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

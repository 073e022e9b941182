package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pricewatch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pricewatch/data/pricewatch.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pricewatch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pricewatch.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
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

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, category, brand, image_url, image_urls, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			brand = excluded.brand,
			image_url = excluded.image_url,
			image_urls = excluded.image_urls,
			updated_at = excluded.updated_at
	`, product.SKU, product.Name, string(product.Category),
		nullString(product.Brand), nullString(product.ImageURL), string(imagesJSON),
		now, now)
	if err != nil {
		return "", fmt.Errorf("upserting product: %w", err)
	}

	var id int64
	row := s.store.db.QueryRowContext(ctx, "SELECT id FROM products WHERE sku = ?", product.SKU)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("reading product id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// GetBySKU retrieves a product by SKU.
func (s *productStore) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, sku, name, category, brand, image_url, image_urls
		FROM products WHERE sku = ?
	`, sku)

	product, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
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
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, sku, name, category, brand, image_url, image_urls
		FROM products
		WHERE ? = '' OR name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY sku
	`, query, query)
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
	var brand, imageURL, imagesJSON sql.NullString

	if err := scan(&id, &product.SKU, &product.Name, &category, &brand, &imageURL, &imagesJSON); err != nil {
		return nil, err
	}

	product.ID = strconv.FormatInt(id, 10)
	product.Category = domain.Category(category)
	product.Brand = brand.String
	product.ImageURL = imageURL.String
	if imagesJSON.Valid && imagesJSON.String != "" && imagesJSON.String != "null" {
		if err := json.Unmarshal([]byte(imagesJSON.String), &product.ImageURLs); err != nil {
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

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO shops (code, name, base_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			base_url = excluded.base_url,
			updated_at = excluded.updated_at
	`, string(shop.Code), shop.Name, nullString(shop.BaseURL), now, now)
	if err != nil {
		return "", fmt.Errorf("upserting shop: %w", err)
	}

	var id int64
	row := s.store.db.QueryRowContext(ctx, "SELECT id FROM shops WHERE code = ?", string(shop.Code))
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("reading shop id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// List returns all registered shops ordered by code.
func (s *shopStore) List(ctx context.Context) ([]domain.Shop, error) {
	rows, err := s.store.db.QueryContext(ctx, `
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
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, code, name, base_url FROM shops WHERE code = ?
	`, string(code))

	shop, err := scanShop(row.Scan)
	if err == sql.ErrNoRows {
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
	var baseURL sql.NullString

	if err := scan(&id, &code, &shop.Name, &baseURL); err != nil {
		return nil, err
	}

	shop.ID = strconv.FormatInt(id, 10)
	shop.Code = domain.ShopCode(code)
	shop.BaseURL = baseURL.String
	return &shop, nil
}

// ==================== Helper Functions ====================

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}

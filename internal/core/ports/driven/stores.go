package driven

import (
	"context"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

// ProductStore persists products.
type ProductStore interface {
	// Upsert inserts or updates a product keyed by SKU and returns its
	// persistent id. Last write wins for mutable fields. Idempotent on
	// retry.
	Upsert(ctx context.Context, product domain.Product) (string, error)

	// GetBySKU fetches a single product.
	// Returns domain.ErrNotFound if the SKU is unknown.
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// Search returns products whose name matches query, or all products
	// when query is empty.
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

// ShopStore persists shops.
type ShopStore interface {
	// Upsert inserts or updates a shop keyed by code and returns its
	// persistent id. Idempotent on retry.
	Upsert(ctx context.Context, shop domain.Shop) (string, error)

	// List returns all registered shops.
	List(ctx context.Context) ([]domain.Shop, error)

	// GetByCode returns a shop by its stable code.
	// Returns domain.ErrNotFound if the code has never been upserted.
	GetByCode(ctx context.Context, code domain.ShopCode) (*domain.Shop, error)
}

// PriceStore persists the append-only price observation stream.
type PriceStore interface {
	// Add persists one observation and returns its id. Observations are
	// never updated or deleted. Assigned ids increase with insertion
	// order; same-timestamp "latest" ties resolve to the highest id.
	Add(ctx context.Context, price domain.PricePoint, productID, shopID string) (string, error)

	// LatestForProduct returns each shop's most recent observation for
	// the SKU, sorted ascending by price.
	LatestForProduct(ctx context.Context, sku string) ([]domain.PricePoint, error)

	// HistoryForProduct returns observations for the SKU ordered by
	// timestamp descending, truncated to limit.
	HistoryForProduct(ctx context.Context, sku string, limit int) ([]domain.PricePoint, error)

	// CheapestByCategory takes the most recent observation per
	// (product, shop) across the category and returns the limit
	// cheapest, ascending by price.
	CheapestByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.PricePoint, error)

	// LatestForProducts returns latest observations per shop for each
	// given SKU. SKUs with no observations are absent from the map.
	LatestForProducts(ctx context.Context, skus []string) (map[string][]domain.PricePoint, error)
}

// SchedulerStore persists scheduled task state and run history.
type SchedulerStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or updates a task keyed by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult appends a task execution result.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// PruneHistory keeps only the most recent keep results per task.
	PruneHistory(ctx context.Context, keep int) error
}

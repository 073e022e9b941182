package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngestInProgress indicates an ingest cycle is already running.
	// A second start request is a no-op, not a failure of the running cycle.
	ErrIngestInProgress = errors.New("ingest in progress")

	// ErrNoPrice indicates a price string contained no parseable amount.
	ErrNoPrice = errors.New("no price in text")

	// ErrUnknownShop indicates a shop code outside the supported set.
	ErrUnknownShop = errors.New("unknown shop")

	// ErrUnknownCategory indicates a category outside the supported set.
	ErrUnknownCategory = errors.New("unknown category")

	// Fetch Errors.

	// ErrFetchFailed indicates a page fetch exhausted its retries.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrRetryable marks an HTTP status worth retrying with backoff.
	ErrRetryable = errors.New("retryable fetch error")

	// Storage Errors.

	// ErrStoreUnavailable indicates the storage backend cannot be reached.
	// Query callers decide whether to retry; the core never does.
	ErrStoreUnavailable = errors.New("store unavailable")
)

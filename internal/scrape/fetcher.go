package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/logger"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 20 * time.Second

	// DefaultRetries is the default retry count for transient errors.
	DefaultRetries = 3

	// DefaultBackoff is the initial delay between retries; it doubles
	// on every attempt.
	DefaultBackoff = time.Second

	// maxBodySize caps response bodies; listing pages are small and an
	// unbounded read on a misbehaving server would stall the cycle.
	maxBodySize = 8 << 20

	userAgent = "Mozilla/5.0 (compatible; pricewatch/1.0)"
)

// retryableStatus marks HTTP statuses worth retrying with backoff.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// HTTPFetcher retrieves pages with a bounded timeout, retry with
// exponential backoff on transient failures, and a proactive rate
// ceiling so a misconfigured inter-request delay can never hammer a
// storefront.
type HTTPFetcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
	bucket  *rate.Limiter
}

// NewHTTPFetcher creates a fetcher. Zero values fall back to defaults.
func NewHTTPFetcher(timeout time.Duration, retries int, backoff time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = DefaultRetries
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		backoff: backoff,
		// Hard politeness cap of 2 req/s regardless of caller pacing.
		bucket: rate.NewLimiter(rate.Limit(2), 1),
	}
}

// Fetch retrieves url, retrying transient failures up to the configured
// count. The returned error wraps domain.ErrFetchFailed once retries
// are exhausted or the failure is not retryable.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			delay := f.backoff * (1 << (attempt - 1))
			logger.Debug("retrying %s in %s (attempt %d/%d)", url, delay, attempt, f.retries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := f.bucket.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetchFailed, url, err)
		}
	}
	return nil, fmt.Errorf("%w: %s after %d retries: %w", domain.ErrFetchFailed, url, f.retries, lastErr)
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// Network errors (timeouts, resets) are transient.
		return nil, fmt.Errorf("%w: %w", domain.ErrRetryable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if retryableStatus[resp.StatusCode] {
			return nil, fmt.Errorf("%w: status %d", domain.ErrRetryable, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrRetryable, err)
	}
	return body, nil
}

func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrRetryable)
}

package ports

import "context"

// RateLimiter answers whether a caller identified by key may proceed.
// Implementations count requests per fixed window; a storage error should be
// reported, not silently treated as a denial.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/api/metrics"
	"github.com/artisan-avenue/auth-service/internal/core/domain"
	"github.com/artisan-avenue/auth-service/internal/core/ports"
)

// RateLimit rejects callers that exceed the per-IP fixed-window limit on the
// guarded route. This sits in front of the per-account throttle markers the
// auth flows keep on the account itself; those remain authoritative.
//
// A limiter backend failure fails open: availability of login and reset
// matters more than the extra guard.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()

			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				return domain.ErrRateLimited
			}

			return next(c)
		}
	}
}

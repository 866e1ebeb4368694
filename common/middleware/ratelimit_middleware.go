package middleware

import (
	"context"
	"net/http"

	"github.com/buildtrack/registrar/common/ratelimit"
	"github.com/labstack/echo/v4"
)

// Limiter is the subset of the rate limiter used by the middleware
type Limiter interface {
	CheckGlobalLimit(ctx context.Context, limit int64, windowSec int) (*ratelimit.Result, error)
	CheckUserLimit(ctx context.Context, username string, limit int64, windowSec int) (*ratelimit.Result, error)
}

// GlobalRateLimit checks the service-wide rate limit.
// Protects the registration pipeline from being overwhelmed.
func GlobalRateLimit(limiter Limiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.CheckGlobalLimit(c.Request().Context(), limit, windowSec)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "global_rate_limit_exceeded",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

// UserRateLimit checks per-user rate limits.
// Requires a username to be set in context by the auth middleware;
// requests without one pass through and are rejected there instead.
func UserRateLimit(limiter Limiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, ok := c.Get("username").(string)
			if !ok || username == "" {
				return next(c)
			}

			result, err := limiter.CheckUserLimit(c.Request().Context(), username, limit, windowSec)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "user_rate_limit_exceeded",
					"details": map[string]interface{}{
						"username":            username,
						"limit":               result.Limit,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

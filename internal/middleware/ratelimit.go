package middleware

import (
	"fmt"
	"time"

	"shutterdesk/internal/caching"
	"shutterdesk/internal/common"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles by client IP using a fixed redis window.
// Redis failures fall open so a cache outage does not take the API down.
func RateLimitMiddleware(cacheSvc caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s", c.RealIP(), c.Path())

			limited, err := cacheSvc.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				return next(c)
			}
			if limited {
				return common.SendRateLimitError(c, "Too many requests, slow down")
			}

			return next(c)
		}
	}
}

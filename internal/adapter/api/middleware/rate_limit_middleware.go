package middleware

import (
	"log"

	"github.com/labstack/echo/v4"

	"surplusmarket/internal/infrastructure/ratelimit"
	"surplusmarket/pkg/errors"
	"surplusmarket/pkg/response"
)

// RateLimit throttles requests per client IP using the request policy of limiter.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if ok, wait := limiter.Allow(ip, ratelimit.ActionRequest); !ok {
				log.Printf("RATE LIMIT: Blocked request from IP %s (retry in %v)", ip, wait)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}

			return next(c)
		}
	}
}

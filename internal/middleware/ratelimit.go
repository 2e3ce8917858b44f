package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/masterdesk/api/internal/ratelimit"
	"github.com/masterdesk/api/pkg/response"
)

// RateLimit guards a route group with a token bucket. Exhaustion is an
// immediate 429 with a Retry-After hint; requests are never queued.
func RateLimit(bucket *ratelimit.Bucket) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !bucket.TryAcquire() {
			retryAfter := int(bucket.RetryAfter().Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.RateLimited(c)
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", bucket.Capacity()))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", bucket.Remaining()))

		return c.Next()
	}
}

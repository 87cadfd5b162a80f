package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// TransferRateLimit caps transfer attempts per source owner per minute using
// a Redis counter, falling back to the client IP when the body carries no
// owner. Fails open: a broken cache never blocks legitimate transfers.
func TransferRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 60
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		var req struct {
			SourceOwnerID string `json:"source_owner_id"`
		}
		_ = c.BodyParser(&req)
		subject := req.SourceOwnerID
		if subject == "" {
			subject = c.IP()
		}

		key := "rl:transfer:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		// NX keeps the window anchored at the first hit while healing keys
		// that lost their TTL (e.g. a crash between INCR and EXPIRE).
		cache.ExpireNX(c.UserContext(), key, time.Minute)
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many transfer attempts, try again later")
		}
		return c.Next()
	}
}

package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestTransferRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(TransferRateLimit(cache, 2))
	app.Post("/transfers", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	post := func() int {
		req := httptest.NewRequest(fiber.MethodPost, "/transfers",
			strings.NewReader(`{"source_owner_id":"owner-1"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := post(); got != fiber.StatusCreated {
		t.Fatalf("first request: %d", got)
	}
	if got := post(); got != fiber.StatusCreated {
		t.Fatalf("second request: %d", got)
	}
	if got := post(); got != fiber.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", got)
	}
}

func TestTransferRateLimitHealsMissingTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(TransferRateLimit(cache, 2))
	app.Post("/transfers", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	post := func() int {
		req := httptest.NewRequest(fiber.MethodPost, "/transfers",
			strings.NewReader(`{"source_owner_id":"owner-2"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	// A counter left without a TTL would throttle the owner forever.
	key := "rl:transfer:owner-2"
	if err := mr.Set(key, "2"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	if got := post(); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected the stale counter to still count, got %d", got)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("counter key has no TTL after a request: %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if got := post(); got != fiber.StatusCreated {
		t.Fatalf("window should have expired, got %d", got)
	}
}

package middleware

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/saldo-pay/saldo_pay/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *int, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	logger := logging.Discard()
	app.Use(Idempotency(cache, time.Minute, logger))

	invocations := 0
	app.Post("/movements", func(c *fiber.Ctx) error {
		invocations++
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"saldo": -500 * invocations, "limite": 1000})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &invocations, cleanup
}

func TestIdempotencyHeaderIsOptional(t *testing.T) {
	app, invocations, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/movements", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
		}
	}

	if *invocations != 2 {
		t.Fatalf("requests without a key must both reach the handler, got %d invocations", *invocations)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, invocations, cleanup := setupTestApp(t)
	defer cleanup()

	send := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/movements", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "abc123")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer resp.Body.Close()
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return resp.StatusCode, string(payload)
	}

	status1, body1 := send()
	if status1 != fiber.StatusOK {
		t.Fatalf("expected status %d got %d", fiber.StatusOK, status1)
	}

	status2, body2 := send()
	if status2 != fiber.StatusOK {
		t.Fatalf("expected cached status %d got %d", fiber.StatusOK, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected cached payload %s got %s", body1, body2)
	}
	if *invocations != 1 {
		t.Fatalf("handler must run once for a repeated key, got %d invocations", *invocations)
	}
}

func TestIdempotencyDistinctKeys(t *testing.T) {
	app, invocations, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/movements", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, fmt.Sprintf("key-%d", i))

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
	}

	if *invocations != 3 {
		t.Fatalf("distinct keys must each reach the handler, got %d invocations", *invocations)
	}
}

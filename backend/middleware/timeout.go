package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// RequestTimeout ends c.UserContext() after d. Zero leaves requests unbounded.
func RequestTimeout(d time.Duration) fiber.Handler {
	next := func(c *fiber.Ctx) error { return c.Next() }
	if d <= 0 {
		return next
	}
	return timeout.NewWithContext(next, d)
}

package middleware

import "github.com/gofiber/fiber/v2"

// DegradedHeader is set on every response while storage runs from memory.
const DegradedHeader = "X-Storage-Degraded"

// DegradedStorage marks responses when degraded reports true.
func DegradedStorage(degraded func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if degraded() {
			c.Set(DegradedHeader, "true")
		}
		return err
	}
}

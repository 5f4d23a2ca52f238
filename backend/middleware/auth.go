package middleware

import (
	"mitra/backend/config"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware admits requests whose token names a signed-in user. The
// user id is left in c.Locals("userID").
func AuthMiddleware(cfg *config.Config, identity *services.IdentityStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		user, err := identity.CurrentUser(c.UserContext(), userID)
		if err != nil {
			return utils.InternalServerError(c, "Could not read session")
		}
		if user == nil {
			return utils.Unauthorized(c, "Signed out")
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// UserID returns the id stored by AuthMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

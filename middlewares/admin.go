package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth guards the back-office routes with a shared key sent in X-Admin-Key.
func AdminAuth(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get("X-Admin-Key")

		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"kind":    "UNAUTHORIZED",
				"message": "INVALID_ADMIN_KEY",
			})
		}

		return c.Next()
	}
}

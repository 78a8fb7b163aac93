package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// CallbackAuth checks the verification_key the game provider embeds in every
// callback body.
func CallbackAuth(expectedKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			VerificationKey string `json:"verification_key"`
		}

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"kind":    "VALIDATION_ERROR",
				"message": "INVALID_JSON",
			})
		}

		if expectedKey == "" || subtle.ConstantTimeCompare([]byte(body.VerificationKey), []byte(expectedKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"kind":    "UNAUTHORIZED",
				"message": "INVALID_VERIFICATION_KEY",
			})
		}

		return c.Next()
	}
}

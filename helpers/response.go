package helpers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// APIError is implemented by errors that carry their own HTTP mapping.
type APIError interface {
	error
	Status() int
	Code() string
	Data() any
}

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONList(c *fiber.Ctx, data any, pagination any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

func JSONError(c *fiber.Ctx, message string) error {
	return JSONErrorStatus(c, fiber.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func JSONErrorStatus(c *fiber.Ctx, status int, kind, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"kind":    kind,
		"message": message,
		"data":    data,
	})
}

// JSONFail renders err with its own status when it is an APIError and as an
// opaque 500 otherwise.
func JSONFail(c *fiber.Ctx, err error) error {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return JSONErrorStatus(c, apiErr.Status(), apiErr.Code(), apiErr.Error(), apiErr.Data())
	}

	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("internal error")
	return JSONErrorStatus(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}

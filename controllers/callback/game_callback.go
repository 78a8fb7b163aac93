package callback

import (
	"cashier/helpers"
	"cashier/services"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc *services.Service
}

func NewHandler(svc *services.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) GameCallback(c *fiber.Ctx) error {
	var req services.GameCallbackInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	result, err := h.svc.ProcessGameCallback(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

package user

import (
	"cashier/helpers"
	"cashier/services"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req services.RegisterAccountInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	user, err := h.svc.RegisterAccount(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONCreated(c, "User registered successfully", fiber.Map{
		"id":      user.ID,
		"phone":   user.Phone,
		"name":    user.Name,
		"balance": user.Balance,
	})
}

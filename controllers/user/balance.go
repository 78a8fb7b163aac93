package user

import (
	"cashier/helpers"

	"github.com/gofiber/fiber/v2"
)

// Account returns the spendable balance together with the live turnover aggregate.
func (h *Handler) Account(c *fiber.Ctx) error {
	userID := c.QueryInt("userId")
	if userID <= 0 {
		return helpers.JSONError(c, "USER_ID_REQUIRED")
	}

	user, err := h.svc.GetAccount(c.UserContext(), uint(userID))
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	summary, err := h.svc.GetAggregateTurnover(c.UserContext(), user.ID)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONSuccess(c, "Account retrieved successfully", fiber.Map{
		"id":       user.ID,
		"phone":    user.Phone,
		"balance":  user.Balance,
		"turnover": summary,
	})
}

func (h *Handler) MyTurnovers(c *fiber.Ctx) error {
	userID := c.QueryInt("userId")
	if userID <= 0 {
		return helpers.JSONError(c, "USER_ID_REQUIRED")
	}

	entries, summary, err := h.svc.ListTurnovers(c.UserContext(), uint(userID))
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
		"summary": summary,
	})
}

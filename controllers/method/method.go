package method

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

func (h *Handler) ListDeposit(activeOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		methods, err := h.svc.ListDepositMethods(c.UserContext(), activeOnly)
		if err != nil {
			return helpers.JSONFail(c, err)
		}
		return helpers.JSONSuccess(c, "Deposit methods retrieved", methods)
	}
}

func (h *Handler) GetDeposit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	m, err := h.svc.GetDepositMethod(c.UserContext(), uint(id))
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONSuccess(c, "Deposit method retrieved", m)
}

func (h *Handler) CreateDeposit(c *fiber.Ctx) error {
	var req services.DepositMethodInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	m, err := h.svc.CreateDepositMethod(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONCreated(c, "Deposit method created", m)
}

func (h *Handler) UpdateDeposit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	var req services.DepositMethodInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	m, err := h.svc.UpdateDepositMethod(c.UserContext(), uint(id), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONSuccess(c, "Deposit method updated", m)
}

func (h *Handler) ListWithdraw(activeOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		methods, err := h.svc.ListWithdrawMethods(c.UserContext(), activeOnly)
		if err != nil {
			return helpers.JSONFail(c, err)
		}
		return helpers.JSONSuccess(c, "Withdraw methods retrieved", methods)
	}
}

func (h *Handler) GetWithdraw(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	m, err := h.svc.GetWithdrawMethod(c.UserContext(), uint(id))
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONSuccess(c, "Withdraw method retrieved", m)
}

func (h *Handler) CreateWithdraw(c *fiber.Ctx) error {
	var req services.WithdrawMethodInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	m, err := h.svc.CreateWithdrawMethod(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONCreated(c, "Withdraw method created", m)
}

func (h *Handler) UpdateWithdraw(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	var req services.WithdrawMethodInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	m, err := h.svc.UpdateWithdrawMethod(c.UserContext(), uint(id), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}
	return helpers.JSONSuccess(c, "Withdraw method updated", m)
}

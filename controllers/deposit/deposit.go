package deposit

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

type approveRequest struct {
	Note string `json:"note"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req services.CreateDepositInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	deposit, err := h.svc.CreateDepositRequest(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONCreated(c, "Deposit request submitted", deposit)
}

func (h *Handler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	var req approveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helpers.JSONError(c, "INVALID_JSON")
		}
	}

	approval, err := h.svc.ApproveDeposit(c.UserContext(), uint(id), req.Note)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONSuccess(c, "Deposit approved", approval)
}

func (h *Handler) Reject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helpers.JSONError(c, "INVALID_ID")
	}

	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	deposit, err := h.svc.RejectDeposit(c.UserContext(), uint(id), req.Reason)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONSuccess(c, "Deposit rejected", deposit)
}

func (h *Handler) List(c *fiber.Ctx) error {
	var q services.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helpers.JSONError(c, "INVALID_QUERY")
	}

	page, err := h.svc.ListDepositRequests(c.UserContext(), q)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONList(c, page.Data, page.Pagination)
}

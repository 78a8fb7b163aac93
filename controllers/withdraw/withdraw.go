package withdraw

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
	var req services.CreateWithdrawInput
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	created, err := h.svc.CreateWithdrawRequest(c.UserContext(), req)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONCreated(c, "Withdraw request submitted", created)
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

	withdrawal, err := h.svc.ApproveWithdraw(c.UserContext(), uint(id), req.Note)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONSuccess(c, "Withdraw approved", withdrawal)
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

	rejection, err := h.svc.RejectWithdraw(c.UserContext(), uint(id), req.Reason)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONSuccess(c, "Withdraw rejected, balance refunded", rejection)
}

func (h *Handler) List(c *fiber.Ctx) error {
	var q services.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return helpers.JSONError(c, "INVALID_QUERY")
	}

	page, err := h.svc.ListWithdrawRequests(c.UserContext(), q)
	if err != nil {
		return helpers.JSONFail(c, err)
	}

	return helpers.JSONList(c, page.Data, page.Pagination)
}

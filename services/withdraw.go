package services

import (
	"cashier/events"
	"cashier/helpers"
	"cashier/metrics"
	"cashier/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateWithdrawInput struct {
	UserID       uint            `json:"userId" validate:"required"`
	MethodID     uint            `json:"methodId" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	CustomFields map[string]any  `json:"customFields"`
}

type WithdrawCreation struct {
	Request *models.WithdrawRequest `json:"request"`
	Balance decimal.Decimal         `json:"balance"`
}

// CreateWithdrawRequest debits the balance immediately, so several pending
// requests can never add up to more than the user holds.
func (s *Service) CreateWithdrawRequest(ctx context.Context, in CreateWithdrawInput) (*WithdrawCreation, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return nil, err
	}

	var result WithdrawCreation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, in.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return ValidationError("user %s is inactive", user.Phone)
		}

		summary, err := aggregateTurnover(tx, user.ID)
		if err != nil {
			return err
		}
		if !summary.CanWithdraw {
			return TurnoverIncompleteError(summary.TotalRemaining)
		}

		if in.Amount.LessThan(MinimumAmount) {
			return ValidationError("amount must be at least %s", MinimumAmount)
		}
		if in.Amount.GreaterThan(user.Balance) {
			return InsufficientBalanceError(user.Balance, in.Amount)
		}

		var method models.WithdrawMethod
		if err := tx.First(&method, in.MethodID).Error; err != nil {
			return notFound(err, "withdraw method")
		}
		if !method.IsActive {
			return ValidationError("withdraw method %s is not active", method.NameEN)
		}
		if method.MinWithdraw.Valid && in.Amount.LessThan(method.MinWithdraw.Decimal) {
			return ValidationError("amount must be at least %s for %s", method.MinWithdraw.Decimal, method.NameEN)
		}
		if method.MaxWithdraw.Valid && in.Amount.GreaterThan(method.MaxWithdraw.Decimal) {
			return ValidationError("amount must be at most %s for %s", method.MaxWithdraw.Decimal, method.NameEN)
		}

		fields, err := s.checkCustomFields(method.Fields, in.CustomFields)
		if err != nil {
			return err
		}

		if err := debit(tx, user.ID, in.Amount); err != nil {
			return err
		}

		req := models.WithdrawRequest{
			UserID:        user.ID,
			MethodID:      method.ID,
			Amount:        in.Amount,
			CustomFields:  fields,
			TransactionID: helpers.GenerateWithdrawTxnID(),
			Status:        models.StatusPending,
		}
		if err := tx.Create(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("withdraw transaction id collision: %w", err)
			}
			return fmt.Errorf("create withdraw request: %w", err)
		}

		balance, err := balanceOf(tx, user.ID)
		if err != nil {
			return err
		}
		result = WithdrawCreation{Request: &req, Balance: balance}
		return nil
	})

	metrics.WithdrawRequests.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Uint("user_id", in.UserID).Str("amount", in.Amount.String()).Msg("[WITHDRAW] create refused")
		return nil, err
	}

	req := result.Request
	log.Info().
		Uint("withdraw_id", req.ID).
		Uint("user_id", req.UserID).
		Str("amount", req.Amount.String()).
		Str("txn", req.TransactionID).
		Str("balance", result.Balance.String()).
		Msg("[WITHDRAW] request created, balance reserved")
	s.publish(ctx, events.New(events.WithdrawCreated, req.UserID, req.TransactionID, req.Amount).WithBalance(result.Balance))
	return &result, nil
}

// ApproveWithdraw only closes the request; the money left the balance at creation.
func (s *Service) ApproveWithdraw(ctx context.Context, id uint, note string) (*models.WithdrawRequest, error) {
	note = strings.TrimSpace(note)

	var req models.WithdrawRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&req, id).Error; err != nil {
			return notFound(err, "withdraw request")
		}
		if req.Status != models.StatusPending {
			return InvalidStateError("withdraw request", req.Status)
		}

		now := time.Now()
		if err := closeWithdraw(tx, req.ID, map[string]any{
			"status":      models.StatusApproved,
			"note":        note,
			"approved_at": now,
		}); err != nil {
			return err
		}

		req.Status = models.StatusApproved
		req.Note = note
		req.ApprovedAt = &now
		return nil
	})

	metrics.WithdrawRequests.WithLabelValues("approve", metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Uint("withdraw_id", id).Msg("[WITHDRAW] approve failed")
		return nil, err
	}

	log.Info().Uint("withdraw_id", req.ID).Uint("user_id", req.UserID).Str("amount", req.Amount.String()).Msg("[WITHDRAW] approved")
	s.publishWithBalance(ctx, events.New(events.WithdrawApproved, req.UserID, req.TransactionID, req.Amount))
	return &req, nil
}

type WithdrawRejection struct {
	Request *models.WithdrawRequest `json:"request"`
	Balance decimal.Decimal         `json:"balance"`
}

// RejectWithdraw refunds exactly the reserved amount.
func (s *Service) RejectWithdraw(ctx context.Context, id uint, reason string) (*WithdrawRejection, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ValidationError("reason is required")
	}

	var result WithdrawRejection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.WithdrawRequest
		if err := tx.Clauses(forUpdate).First(&req, id).Error; err != nil {
			return notFound(err, "withdraw request")
		}
		if req.Status != models.StatusPending {
			return InvalidStateError("withdraw request", req.Status)
		}

		now := time.Now()
		if err := closeWithdraw(tx, req.ID, map[string]any{
			"status":        models.StatusRejected,
			"reject_reason": reason,
			"rejected_at":   now,
		}); err != nil {
			return err
		}
		if err := credit(tx, req.UserID, req.Amount); err != nil {
			return err
		}

		balance, err := balanceOf(tx, req.UserID)
		if err != nil {
			return err
		}

		req.Status = models.StatusRejected
		req.RejectReason = reason
		req.RejectedAt = &now
		result = WithdrawRejection{Request: &req, Balance: balance}
		return nil
	})

	metrics.WithdrawRequests.WithLabelValues("reject", metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Uint("withdraw_id", id).Msg("[WITHDRAW] reject failed")
		return nil, err
	}

	req := result.Request
	log.Info().
		Uint("withdraw_id", req.ID).
		Uint("user_id", req.UserID).
		Str("refunded", req.Amount.String()).
		Str("balance", result.Balance.String()).
		Str("reason", reason).
		Msg("[WITHDRAW] rejected, balance refunded")
	s.publish(ctx, events.New(events.WithdrawRejected, req.UserID, req.TransactionID, req.Amount).WithBalance(result.Balance))
	return &result, nil
}

func closeWithdraw(tx *gorm.DB, id uint, updates map[string]any) error {
	res := tx.Model(&models.WithdrawRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("close withdraw request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return InvalidStateError("withdraw request", "processed")
	}
	return nil
}

func (s *Service) ListWithdrawRequests(ctx context.Context, q ListQuery) (Page[models.WithdrawRequest], error) {
	return paginate[models.WithdrawRequest](s.db.WithContext(ctx).Model(&models.WithdrawRequest{}), q)
}

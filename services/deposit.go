package services

import (
	"cashier/events"
	"cashier/metrics"
	"cashier/models"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateDepositInput struct {
	UserID        uint            `json:"userId" validate:"required"`
	MethodID      uint            `json:"methodId" validate:"required"`
	MethodType    string          `json:"methodType" validate:"max=32"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId" validate:"required,min=4,max=64"`
}

// CreateDepositRequest records a pending deposit. The bonus and turnover
// figures stored on the request are for display only.
func (s *Service) CreateDepositRequest(ctx context.Context, in CreateDepositInput) (*models.DepositRequest, error) {
	in.MethodType = strings.TrimSpace(in.MethodType)
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.Amount.LessThan(MinimumAmount) {
		return nil, ValidationError("amount must be at least %s", MinimumAmount)
	}

	db := s.db.WithContext(ctx)

	user, err := s.GetAccount(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ValidationError("user %s is inactive", user.Phone)
	}

	var method models.DepositMethod
	if err := db.First(&method, in.MethodID).Error; err != nil {
		return nil, notFound(err, "deposit method")
	}
	if !method.IsActive {
		return nil, ValidationError("deposit method %s is not active", method.NameEN)
	}
	if in.MethodType != "" && len(method.MethodTypes) > 0 && !method.SupportsType(in.MethodType) {
		return nil, ValidationError("method type %q is not offered by %s", in.MethodType, method.NameEN)
	}
	if method.MinDeposit.Valid && in.Amount.LessThan(method.MinDeposit.Decimal) {
		return nil, ValidationError("amount must be at least %s for %s", method.MinDeposit.Decimal, method.NameEN)
	}
	if method.MaxDeposit.Valid && in.Amount.GreaterThan(method.MaxDeposit.Decimal) {
		return nil, ValidationError("amount must be at most %s for %s", method.MaxDeposit.Decimal, method.NameEN)
	}

	req := models.DepositRequest{
		UserID:              in.UserID,
		MethodID:            method.ID,
		MethodType:          in.MethodType,
		Amount:              in.Amount,
		TransactionID:       in.TransactionID,
		BonusAmount:         bonusFor(in.Amount, method.BonusPercentage),
		TurnoverTargetAdded: in.Amount.Mul(method.TurnoverMultiplier).Round(2),
		Status:              models.StatusPending,
	}
	if err := db.Create(&req).Error; err != nil {
		metrics.DepositRequests.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create deposit request: %w", err)
	}

	metrics.DepositRequests.WithLabelValues("create", "ok").Inc()
	log.Info().
		Uint("deposit_id", req.ID).
		Uint("user_id", req.UserID).
		Str("amount", req.Amount.String()).
		Str("txn", req.TransactionID).
		Msg("[DEPOSIT] request submitted")
	return &req, nil
}

func bonusFor(amount, percentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(percentage).Div(hundred).Round(2)
}

type DepositApproval struct {
	Request  *models.DepositRequest  `json:"request"`
	Turnover *models.DepositTurnover `json:"turnover"`
	Balance  decimal.Decimal         `json:"balance"`
}

// ApproveDeposit credits amount+bonus, opens the turnover requirement and
// closes the request as one transaction. The multiplier is re-read from the
// method, so catalog changes made while the request was pending apply.
func (s *Service) ApproveDeposit(ctx context.Context, id uint, note string) (*DepositApproval, error) {
	var result DepositApproval
	note = strings.TrimSpace(note)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.DepositRequest
		if err := tx.Clauses(forUpdate).First(&req, id).Error; err != nil {
			return notFound(err, "deposit request")
		}
		if req.Status != models.StatusPending {
			return InvalidStateError("deposit request", req.Status)
		}

		var method models.DepositMethod
		if err := tx.Unscoped().First(&method, req.MethodID).Error; err != nil {
			return notFound(err, "deposit method")
		}

		total := req.Amount.Add(req.BonusAmount)
		required := total.Mul(method.TurnoverMultiplier).Round(2)

		if err := credit(tx, req.UserID, total); err != nil {
			return err
		}

		turnover := models.DepositTurnover{
			UserID:             req.UserID,
			DepositRequestID:   req.ID,
			DepositAmount:      req.Amount,
			BonusAmount:        req.BonusAmount,
			TotalBaseAmount:    total,
			TurnoverMultiplier: method.TurnoverMultiplier,
			RequiredTurnover:   required,
			CompletedTurnover:  decimal.Zero,
			RemainingTurnover:  required,
			Status:             models.TurnoverActive,
		}
		if !required.IsPositive() {
			turnover.Status = models.TurnoverCompleted
		}
		if err := tx.Create(&turnover).Error; err != nil {
			return fmt.Errorf("create turnover: %w", err)
		}

		now := time.Now()
		res := tx.Model(&models.DepositRequest{}).
			Where("id = ? AND status = ?", req.ID, models.StatusPending).
			Updates(map[string]any{
				"status":      models.StatusApproved,
				"note":        note,
				"approved_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("approve deposit request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return InvalidStateError("deposit request", "processed")
		}

		balance, err := balanceOf(tx, req.UserID)
		if err != nil {
			return err
		}

		req.Status = models.StatusApproved
		req.Note = note
		req.ApprovedAt = &now
		result = DepositApproval{Request: &req, Turnover: &turnover, Balance: balance}
		return nil
	})

	metrics.DepositRequests.WithLabelValues("approve", metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Uint("deposit_id", id).Msg("[DEPOSIT] approve failed")
		return nil, err
	}

	req := result.Request
	log.Info().
		Uint("deposit_id", req.ID).
		Uint("user_id", req.UserID).
		Str("credited", result.Turnover.TotalBaseAmount.String()).
		Str("required_turnover", result.Turnover.RequiredTurnover.String()).
		Str("balance", result.Balance.String()).
		Msg("[DEPOSIT] approved")
	s.publish(ctx, events.New(events.DepositApproved, req.UserID, req.TransactionID, result.Turnover.TotalBaseAmount).WithBalance(result.Balance))
	return &result, nil
}

// RejectDeposit never touches the balance; pending deposits were never credited.
func (s *Service) RejectDeposit(ctx context.Context, id uint, reason string) (*models.DepositRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ValidationError("reason is required")
	}

	var req models.DepositRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).First(&req, id).Error; err != nil {
			return notFound(err, "deposit request")
		}
		if req.Status != models.StatusPending {
			return InvalidStateError("deposit request", req.Status)
		}

		now := time.Now()
		res := tx.Model(&models.DepositRequest{}).
			Where("id = ? AND status = ?", req.ID, models.StatusPending).
			Updates(map[string]any{
				"status":        models.StatusRejected,
				"reject_reason": reason,
				"rejected_at":   now,
			})
		if res.Error != nil {
			return fmt.Errorf("reject deposit request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return InvalidStateError("deposit request", "processed")
		}

		req.Status = models.StatusRejected
		req.RejectReason = reason
		req.RejectedAt = &now
		return nil
	})

	metrics.DepositRequests.WithLabelValues("reject", metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().Err(err).Uint("deposit_id", id).Msg("[DEPOSIT] reject failed")
		return nil, err
	}

	log.Info().Uint("deposit_id", req.ID).Uint("user_id", req.UserID).Str("reason", reason).Msg("[DEPOSIT] rejected")
	s.publishWithBalance(ctx, events.New(events.DepositRejected, req.UserID, req.TransactionID, req.Amount))
	return &req, nil
}

func (s *Service) ListDepositRequests(ctx context.Context, q ListQuery) (Page[models.DepositRequest], error) {
	return paginate[models.DepositRequest](s.db.WithContext(ctx).Model(&models.DepositRequest{}), q)
}

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

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GameCallbackInput struct {
	AccountID       models.FlexibleString `json:"account_id"`
	UsernameOrPhone models.FlexibleString `json:"username_or_phone" validate:"required"`
	ProviderCode    models.FlexibleString `json:"provider_code"`
	Amount          decimal.Decimal       `json:"amount"`
	GameCode        models.FlexibleString `json:"game_code"`
	BetType         string                `json:"bet_type" validate:"required,oneof=BET SETTLE"`
	TransactionID   models.FlexibleString `json:"transaction_id" validate:"required,max=64"`
	VerificationKey string                `json:"verification_key"`
	Times           models.FlexibleString `json:"times"`
}

type GameCallbackResult struct {
	Phone             string          `json:"phone"`
	NewBalance        decimal.Decimal `json:"new_balance"`
	Change            decimal.Decimal `json:"change"`
	TurnoverIncrement decimal.Decimal `json:"turnoverIncrement"`
	TransactionID     string          `json:"transaction_id"`
}

// ProcessGameCallback settles one provider BET or SETTLE. Balance movement,
// turnover progress and the history row commit together or not at all.
//
// Both legs count abs(amount) as wagering volume, so a bet and its settlement
// progress turnover twice.
func (s *Service) ProcessGameCallback(ctx context.Context, in GameCallbackInput) (*GameCallbackResult, error) {
	in.BetType = strings.ToUpper(strings.TrimSpace(in.BetType))
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, ValidationError("amount must not be negative")
	}
	if err := checkAmount("amount", in.Amount); err != nil {
		return nil, err
	}

	txnID := in.TransactionID.String()
	change := in.Amount
	if in.BetType == models.BetTypeBet {
		change = in.Amount.Neg()
	}
	increment := in.Amount.Abs()

	var (
		result  GameCallbackResult
		userID  uint
		applied decimal.Decimal
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates := helpers.PhoneCandidates(in.UsernameOrPhone.String(), s.phoneCC)
		if len(candidates) == 0 {
			return ValidationError("username_or_phone is invalid")
		}

		var user models.User
		if err := tx.Clauses(forUpdate).
			Where("phone IN ?", candidates).
			Order("id ASC").
			First(&user).Error; err != nil {
			return notFound(err, "user")
		}
		if !user.IsActive {
			return ValidationError("user %s is inactive", user.Phone)
		}

		var seen int64
		if err := tx.Model(&models.GameHistory{}).Where("transaction_id = ?", txnID).Count(&seen).Error; err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if seen > 0 {
			return DuplicateTransactionError(txnID)
		}

		switch {
		case change.IsNegative():
			if err := debit(tx, user.ID, change.Neg()); err != nil {
				return err
			}
		case change.IsPositive():
			if err := credit(tx, user.ID, change); err != nil {
				return err
			}
		}

		progress, err := recordTurnoverProgress(tx, user.ID, increment)
		if err != nil {
			return err
		}
		applied = progress.Applied

		balance, err := balanceOf(tx, user.ID)
		if err != nil {
			return err
		}

		entry := models.GameHistory{
			UserID:            user.ID,
			Phone:             user.Phone,
			AccountID:         in.AccountID.String(),
			ProviderCode:      in.ProviderCode.String(),
			GameCode:          in.GameCode.String(),
			BetType:           in.BetType,
			TransactionID:     txnID,
			Amount:            in.Amount,
			WinAmount:         decimal.Zero,
			BalanceBefore:     user.Balance,
			BalanceAfter:      balance,
			TurnoverIncrement: increment,
			Status:            "success",
			Times:             in.Times.String(),
		}
		if in.BetType == models.BetTypeSettle {
			entry.WinAmount = in.Amount
		}
		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return DuplicateTransactionError(txnID)
			}
			return fmt.Errorf("append game history: %w", err)
		}

		userID = user.ID
		result = GameCallbackResult{
			Phone:             user.Phone,
			NewBalance:        balance,
			Change:            change,
			TurnoverIncrement: increment,
			TransactionID:     txnID,
		}
		return nil
	})

	metrics.GameCallbacks.WithLabelValues(in.BetType, metrics.Result(err)).Inc()
	if err != nil {
		log.Warn().
			Err(err).
			Str("phone", in.UsernameOrPhone.String()).
			Str("txn", txnID).
			Str("bet_type", in.BetType).
			Msg("[CALLBACK] rejected")
		return nil, err
	}

	metrics.TurnoverApplied.Add(applied.InexactFloat64())
	log.Info().
		Str("phone", result.Phone).
		Str("provider", in.ProviderCode.String()).
		Str("game", in.GameCode.String()).
		Str("txn", txnID).
		Str("change", result.Change.String()).
		Str("balance", result.NewBalance.String()).
		Msg("[CALLBACK] settled")
	s.publish(ctx, events.New(events.GameSettled, userID, txnID, result.Change).WithBalance(result.NewBalance))
	return &result, nil
}

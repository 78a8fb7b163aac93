package services

import (
	"cashier/helpers"
	"cashier/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RegisterAccountInput struct {
	Phone string `json:"phone" validate:"required,min=6,max=20"`
	Name  string `json:"name" validate:"max=64"`
}

func (s *Service) RegisterAccount(ctx context.Context, in RegisterAccountInput) (*models.User, error) {
	in.Phone = helpers.DigitsOnly(in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).
		Where("phone IN ?", helpers.PhoneCandidates(in.Phone, s.phoneCC)).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	}
	if existing > 0 {
		return nil, ValidationError("phone %s is already registered", in.Phone)
	}

	user := models.User{
		Phone:    in.Phone,
		Name:     in.Name,
		Balance:  decimal.Zero,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ValidationError("phone %s is already registered", in.Phone)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Uint("user_id", user.ID).Str("phone", user.Phone).Msg("[ACCOUNT] registered")
	return &user, nil
}

func (s *Service) GetAccount(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// lockUser takes the row lock every per-user money movement serialises on.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(forUpdate).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func credit(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("credit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError("user")
	}
	return nil
}

// debit never lets the balance go below zero: the guard and the decrement are
// one statement.
func debit(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit balance: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	balance, err := balanceOf(tx, userID)
	if err != nil {
		return err
	}
	return InsufficientBalanceError(balance, amount)
}

func balanceOf(tx *gorm.DB, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := tx.Select("id", "balance").First(&user, userID).Error; err != nil {
		return decimal.Zero, notFound(err, "user")
	}
	return user.Balance, nil
}

package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TurnoverStatus string

const (
	TurnoverActive    TurnoverStatus = "active"
	TurnoverCompleted TurnoverStatus = "completed"
	TurnoverExpired   TurnoverStatus = "expired"
)

// DepositTurnover is the wagering requirement opened by one approved deposit.
// RemainingTurnover == max(0, RequiredTurnover - CompletedTurnover).
type DepositTurnover struct {
	gorm.Model

	UserID           uint `gorm:"index;not null" json:"user_id"`
	DepositRequestID uint `gorm:"uniqueIndex;not null" json:"deposit_request_id"`

	DepositAmount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"deposit_amount"`
	BonusAmount        decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"bonus_amount"`
	TotalBaseAmount    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total_base_amount"`
	TurnoverMultiplier decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"turnover_multiplier"`
	RequiredTurnover   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"required_turnover"`
	CompletedTurnover  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"completed_turnover"`
	RemainingTurnover  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"remaining_turnover"`

	Status TurnoverStatus `gorm:"size:16;index;not null;default:active" json:"status"`
}

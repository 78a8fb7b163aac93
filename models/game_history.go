package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BetTypeBet    = "BET"
	BetTypeSettle = "SETTLE"
)

// GameHistory is appended once per provider callback. TransactionID is unique
// across all users so a replayed callback can never move money twice.
type GameHistory struct {
	gorm.Model

	UserID    uint   `gorm:"index;not null" json:"user_id"`
	Phone     string `gorm:"size:20;index" json:"phone"`
	AccountID string `gorm:"size:64" json:"account_id"`

	ProviderCode  string `gorm:"size:32;index" json:"provider_code"`
	GameCode      string `gorm:"size:64;index" json:"game_code"`
	BetType       string `gorm:"size:8;not null" json:"bet_type"`
	TransactionID string `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`

	Amount            decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	WinAmount         decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"win_amount"`
	BalanceBefore     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_before"`
	BalanceAfter      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"balance_after"`
	TurnoverIncrement decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"turnover_increment"`

	Status string `gorm:"size:16;index" json:"status"`
	Times  string `gorm:"size:32" json:"times"`
}

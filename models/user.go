package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is the account ledger. Balance is the only stored money figure; the
// remaining wagering requirement is always aggregated from DepositTurnover.
type User struct {
	gorm.Model

	Phone    string          `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	Name     string          `gorm:"size:64" json:"name"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	IsActive bool            `gorm:"default:true" json:"is_active"`

	GameHistories []GameHistory `gorm:"foreignKey:UserID" json:"-"`
}

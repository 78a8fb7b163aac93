package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DepositMethod struct {
	gorm.Model

	NameEN        string                      `gorm:"size:64;not null" json:"name_en"`
	NameBN        string                      `gorm:"size:64" json:"name_bn"`
	AccountNumber string                      `gorm:"size:64" json:"account_number"`
	MethodTypes   datatypes.JSONSlice[string] `json:"method_types"`

	BonusPercentage    decimal.Decimal     `gorm:"type:numeric(5,2);not null;default:0" json:"bonus_percentage"`
	TurnoverMultiplier decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"turnover_multiplier"`
	MinDeposit         decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"min_deposit"`
	MaxDeposit         decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"max_deposit"`

	IsActive bool `gorm:"not null;index" json:"is_active"`
	Order    int  `gorm:"column:sort_order;default:0" json:"order"`
}

func (m DepositMethod) SupportsType(methodType string) bool {
	for _, t := range m.MethodTypes {
		if t == methodType {
			return true
		}
	}
	return false
}

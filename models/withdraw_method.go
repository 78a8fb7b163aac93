package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldEmail  FieldType = "email"
)

// FieldSpec declares one custom field a withdrawal through the method must carry.
type FieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

type WithdrawMethod struct {
	gorm.Model

	NameEN string                         `gorm:"size:64;not null" json:"name_en"`
	NameBN string                         `gorm:"size:64" json:"name_bn"`
	Fields datatypes.JSONSlice[FieldSpec] `json:"fields"`

	MinWithdraw decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"min_withdraw"`
	MaxWithdraw decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"max_withdraw"`

	IsActive bool `gorm:"not null;index" json:"is_active"`
	Order    int  `gorm:"column:sort_order;default:0" json:"order"`
}

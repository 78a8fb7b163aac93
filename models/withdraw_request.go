package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WithdrawRequest holds funds already debited from the user while pending.
type WithdrawRequest struct {
	gorm.Model

	UserID   uint            `gorm:"index;not null" json:"user_id"`
	User     *User           `json:"user,omitempty"`
	MethodID uint            `gorm:"index;not null" json:"method_id"`
	Method   *WithdrawMethod `json:"method,omitempty"`

	Amount        decimal.Decimal   `gorm:"type:numeric(20,2);not null" json:"amount"`
	CustomFields  datatypes.JSONMap `json:"custom_fields"`
	TransactionID string            `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`

	Status       RequestStatus `gorm:"size:16;index;not null;default:pending" json:"status"`
	Note         string        `gorm:"size:255" json:"note"`
	RejectReason string        `gorm:"size:255" json:"reject_reason"`
	ApprovedAt   *time.Time    `json:"approved_at"`
	RejectedAt   *time.Time    `json:"rejected_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

type DepositRequest struct {
	gorm.Model

	UserID     uint           `gorm:"index;not null" json:"user_id"`
	User       *User          `json:"user,omitempty"`
	MethodID   uint           `gorm:"index;not null" json:"method_id"`
	Method     *DepositMethod `json:"method,omitempty"`
	MethodType string         `gorm:"size:32" json:"method_type"`

	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	TransactionID string          `gorm:"size:64;index;not null" json:"transaction_id"`

	// Display snapshot taken at submission time.
	BonusAmount         decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"bonus_amount"`
	TurnoverTargetAdded decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"turnover_target_added"`

	Status       RequestStatus `gorm:"size:16;index;not null;default:pending" json:"status"`
	Note         string        `gorm:"size:255" json:"note"`
	RejectReason string        `gorm:"size:255" json:"reject_reason"`
	ApprovedAt   *time.Time    `json:"approved_at"`
	RejectedAt   *time.Time    `json:"rejected_at"`
}

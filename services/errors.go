package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindValidation           Kind = "VALIDATION_ERROR"
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidState         Kind = "INVALID_STATE"
	KindTurnoverIncomplete   Kind = "TURNOVER_INCOMPLETE"
	KindInsufficientBalance  Kind = "INSUFFICIENT_BALANCE"
	KindDuplicateTransaction Kind = "DUPLICATE_TRANSACTION"
)

// Error is a ledger rule violation. Anything that is not an *Error is an
// infrastructure failure.
type Error struct {
	Kind    Kind
	Message string

	// Remaining is set for KindTurnoverIncomplete.
	Remaining decimal.Decimal
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Code() string {
	return string(e.Kind)
}

func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (e *Error) Data() any {
	if e.Kind == KindTurnoverIncomplete {
		return map[string]any{"remaining": e.Remaining}
	}
	return nil
}

func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func InvalidStateError(what string, status any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf("%s is already %v", what, status)}
}

func TurnoverIncompleteError(remaining decimal.Decimal) *Error {
	return &Error{
		Kind:      KindTurnoverIncomplete,
		Message:   fmt.Sprintf("complete %s more turnover before withdrawing", remaining.StringFixed(2)),
		Remaining: remaining,
	}
}

func InsufficientBalanceError(balance, amount decimal.Decimal) *Error {
	return &Error{
		Kind:    KindInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: have %s, need %s", balance.StringFixed(2), amount.StringFixed(2)),
	}
}

func DuplicateTransactionError(txnID string) *Error {
	return &Error{Kind: KindDuplicateTransaction, Message: "duplicate transaction " + txnID}
}

// KindOf returns the ledger error kind of err, or "" for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

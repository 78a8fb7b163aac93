package services

import (
	"cashier/database/dbtest"
	"cashier/events"
	"cashier/models"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	ctx context.Context
	db  *gorm.DB
	svc *Service
	rec *events.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	rec := &events.Recorder{}
	return &fixture{
		ctx: context.Background(),
		db:  db,
		svc: New(db, Options{Publisher: rec, PhoneCountryCode: "880"}),
		rec: rec,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, "decimal mismatch: want "+want+", got "+got.String(), msgAndArgs...)
	}
}

func assertKind(t *testing.T, want Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, KindOf(err), "error: %v", err)
}

func (f *fixture) user(t *testing.T, phone, balance string) *models.User {
	t.Helper()
	u, err := f.svc.RegisterAccount(f.ctx, RegisterAccountInput{Phone: phone, Name: "player " + phone})
	require.NoError(t, err)
	if balance != "0" {
		require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).Update("balance", dec(balance)).Error)
	}
	return u
}

func (f *fixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	u, err := f.svc.GetAccount(f.ctx, userID)
	require.NoError(t, err)
	return u.Balance
}

func (f *fixture) depositMethod(t *testing.T, bonus, multiplier string) *models.DepositMethod {
	t.Helper()
	m, err := f.svc.CreateDepositMethod(f.ctx, DepositMethodInput{
		NameEN:             "bKash",
		NameBN:             "বিকাশ",
		AccountNumber:      "01700000000",
		MethodTypes:        []string{"send-money", "cash-out"},
		BonusPercentage:    dec(bonus),
		TurnoverMultiplier: dec(multiplier),
		IsActive:           true,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) withdrawMethod(t *testing.T) *models.WithdrawMethod {
	t.Helper()
	m, err := f.svc.CreateWithdrawMethod(f.ctx, WithdrawMethodInput{
		NameEN: "Nagad",
		Fields: []models.FieldSpec{
			{Key: "wallet_number", Label: "Wallet number", Type: models.FieldNumber, Required: true},
			{Key: "holder_name", Label: "Account holder", Type: models.FieldText},
			{Key: "email", Label: "Email", Type: models.FieldEmail},
		},
		IsActive: true,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) deposit(t *testing.T, userID, methodID uint, amount string) *models.DepositRequest {
	t.Helper()
	req, err := f.svc.CreateDepositRequest(f.ctx, CreateDepositInput{
		UserID:        userID,
		MethodID:      methodID,
		Amount:        dec(amount),
		TransactionID: "BK8H2K9L",
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) approvedDeposit(t *testing.T, userID, methodID uint, amount string) *DepositApproval {
	t.Helper()
	req := f.deposit(t, userID, methodID, amount)
	approval, err := f.svc.ApproveDeposit(f.ctx, req.ID, "")
	require.NoError(t, err)
	return approval
}

func (f *fixture) turnovers(t *testing.T, userID uint) []models.DepositTurnover {
	t.Helper()
	var entries []models.DepositTurnover
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error)
	return entries
}

// assertTurnoverInvariant checks remaining == max(0, required - completed) on every row.
func (f *fixture) assertTurnoverInvariant(t *testing.T, userID uint) {
	t.Helper()
	for _, e := range f.turnovers(t, userID) {
		want := decimal.Max(decimal.Zero, e.RequiredTurnover.Sub(e.CompletedTurnover))
		assert.True(t, want.Equal(e.RemainingTurnover),
			"turnover %d: remaining %s, required %s, completed %s", e.ID, e.RemainingTurnover, e.RequiredTurnover, e.CompletedTurnover)
		assert.False(t, e.CompletedTurnover.GreaterThan(e.RequiredTurnover), "turnover %d over-completed", e.ID)
	}
}

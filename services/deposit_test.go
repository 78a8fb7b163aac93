package services

import (
	"cashier/events"
	"cashier/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateDepositRequest_ComputesDisplaySnapshot(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")

	req, err := f.svc.CreateDepositRequest(f.ctx, CreateDepositInput{
		UserID:        u.ID,
		MethodID:      m.ID,
		MethodType:    "send-money",
		Amount:        dec("200"),
		TransactionID: "  TXN123  ",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, "TXN123", req.TransactionID)
	assertDec(t, "10", req.BonusAmount)
	assertDec(t, "400", req.TurnoverTargetAdded)
	assertDec(t, "0", f.balance(t, u.ID), "pending deposits never touch the balance")
	assert.Empty(t, f.turnovers(t, u.ID))
}

func TestCreateDepositRequest_Validation(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")

	inactive, err := f.svc.CreateDepositMethod(f.ctx, DepositMethodInput{NameEN: "Rocket", IsActive: false})
	require.NoError(t, err)

	limited, err := f.svc.CreateDepositMethod(f.ctx, DepositMethodInput{
		NameEN:     "Upay",
		MinDeposit: nullDec("500"),
		MaxDeposit: nullDec("1000"),
		IsActive:   true,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateDepositInput
		want Kind
	}{
		{"amount below minimum", CreateDepositInput{UserID: u.ID, MethodID: m.ID, Amount: dec("99.99"), TransactionID: "TXN1"}, KindValidation},
		{"missing amount", CreateDepositInput{UserID: u.ID, MethodID: m.ID, TransactionID: "TXN1"}, KindValidation},
		{"short transaction id", CreateDepositInput{UserID: u.ID, MethodID: m.ID, Amount: dec("200"), TransactionID: "abc"}, KindValidation},
		{"blank transaction id", CreateDepositInput{UserID: u.ID, MethodID: m.ID, Amount: dec("200"), TransactionID: "    "}, KindValidation},
		{"unknown method", CreateDepositInput{UserID: u.ID, MethodID: 9999, Amount: dec("200"), TransactionID: "TXN1"}, KindNotFound},
		{"unknown user", CreateDepositInput{UserID: 9999, MethodID: m.ID, Amount: dec("200"), TransactionID: "TXN1"}, KindNotFound},
		{"inactive method", CreateDepositInput{UserID: u.ID, MethodID: inactive.ID, Amount: dec("200"), TransactionID: "TXN1"}, KindValidation},
		{"unsupported method type", CreateDepositInput{UserID: u.ID, MethodID: m.ID, MethodType: "bank", Amount: dec("200"), TransactionID: "TXN1"}, KindValidation},
		{"below method minimum", CreateDepositInput{UserID: u.ID, MethodID: limited.ID, Amount: dec("200"), TransactionID: "TXN1"}, KindValidation},
		{"above method maximum", CreateDepositInput{UserID: u.ID, MethodID: limited.ID, Amount: dec("1500"), TransactionID: "TXN1"}, KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateDepositRequest(f.ctx, tt.in)
			assertKind(t, tt.want, err)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.DepositRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateDepositRequest_AllowsReusedTransactionID(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "0", "1")

	first := f.deposit(t, u.ID, m.ID, "100")
	second := f.deposit(t, u.ID, m.ID, "100")

	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.NotEqual(t, first.ID, second.ID)
}

// Deposit 200 via 5% bonus, 2x multiplier.
func TestApproveDeposit_CreditsBalanceAndOpensTurnover(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	approval, err := f.svc.ApproveDeposit(f.ctx, req.ID, "checked statement")
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, approval.Request.Status)
	assert.NotNil(t, approval.Request.ApprovedAt)
	assertDec(t, "10", approval.Turnover.BonusAmount)
	assertDec(t, "210", approval.Turnover.TotalBaseAmount)
	assertDec(t, "420", approval.Turnover.RequiredTurnover)
	assertDec(t, "420", approval.Turnover.RemainingTurnover)
	assertDec(t, "210", approval.Balance)
	assertDec(t, "210", f.balance(t, u.ID))

	var stored models.DepositRequest
	require.NoError(t, f.db.First(&stored, req.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, "checked statement", stored.Note)

	entries := f.turnovers(t, u.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, req.ID, entries[0].DepositRequestID)
	assert.Equal(t, models.TurnoverActive, entries[0].Status)
	f.assertTurnoverInvariant(t, u.ID)

	summary, err := f.svc.GetAggregateTurnover(f.ctx, u.ID)
	require.NoError(t, err)
	assertDec(t, "420", summary.TotalRemaining)
	assert.False(t, summary.CanWithdraw)

	assert.Equal(t, []string{events.DepositApproved}, f.rec.Types())
}

func TestApproveDeposit_SecondCallFailsWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	_, err := f.svc.ApproveDeposit(f.ctx, req.ID, "")
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(f.ctx, req.ID, "")
	assertKind(t, KindInvalidState, err)

	_, err = f.svc.RejectDeposit(f.ctx, req.ID, "late reject")
	assertKind(t, KindInvalidState, err)

	assertDec(t, "210", f.balance(t, u.ID))
	assert.Len(t, f.turnovers(t, u.ID), 1)
	assert.Len(t, f.rec.Events(), 1)
}

func TestApproveDeposit_UnknownRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApproveDeposit(f.ctx, 42, "")
	assertKind(t, KindNotFound, err)
}

func TestApproveDeposit_RollsBackWhenTurnoverInsertFails(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	const hook = "test:fail_turnover_insert"
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register(hook, func(tx *gorm.DB) {
		if tx.Statement.Table == "deposit_turnovers" {
			_ = tx.AddError(errors.New("simulated turnover insert failure"))
		}
	}))

	_, err := f.svc.ApproveDeposit(f.ctx, req.ID, "")
	require.Error(t, err)
	assert.Empty(t, KindOf(err))

	assertDec(t, "0", f.balance(t, u.ID), "balance credit must roll back with the failed turnover insert")
	assert.Empty(t, f.turnovers(t, u.ID))

	var stored models.DepositRequest
	require.NoError(t, f.db.First(&stored, req.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Empty(t, f.rec.Events())

	require.NoError(t, f.db.Callback().Create().Remove(hook))

	approval, err := f.svc.ApproveDeposit(f.ctx, req.ID, "")
	require.NoError(t, err)
	assertDec(t, "210", approval.Balance)
}

func TestApproveDeposit_RederivesMultiplierFromCurrentMethod(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	_, err := f.svc.UpdateDepositMethod(f.ctx, m.ID, DepositMethodInput{
		NameEN:             m.NameEN,
		BonusPercentage:    dec("50"),
		TurnoverMultiplier: dec("3"),
		IsActive:           true,
	})
	require.NoError(t, err)

	approval, err := f.svc.ApproveDeposit(f.ctx, req.ID, "")
	require.NoError(t, err)

	assertDec(t, "10", approval.Turnover.BonusAmount, "bonus stays the submitted snapshot")
	assertDec(t, "3", approval.Turnover.TurnoverMultiplier)
	assertDec(t, "630", approval.Turnover.RequiredTurnover)
	assertDec(t, "210", approval.Balance)
}

func TestApproveDeposit_ZeroMultiplierOpensCompletedEntry(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "0", "0")

	approval := f.approvedDeposit(t, u.ID, m.ID, "150")

	assert.Equal(t, models.TurnoverCompleted, approval.Turnover.Status)
	assertDec(t, "0", approval.Turnover.RemainingTurnover)

	summary, err := f.svc.GetAggregateTurnover(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, summary.CanWithdraw)
}

func TestRejectDeposit(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	_, err := f.svc.RejectDeposit(f.ctx, req.ID, "   ")
	assertKind(t, KindValidation, err)

	rejected, err := f.svc.RejectDeposit(f.ctx, req.ID, "transaction id not found in statement")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "transaction id not found in statement", rejected.RejectReason)
	assert.NotNil(t, rejected.RejectedAt)

	_, err = f.svc.RejectDeposit(f.ctx, req.ID, "again")
	assertKind(t, KindInvalidState, err)

	_, err = f.svc.ApproveDeposit(f.ctx, req.ID, "")
	assertKind(t, KindInvalidState, err)

	assertDec(t, "0", f.balance(t, u.ID))
	assert.Empty(t, f.turnovers(t, u.ID))
	assert.Equal(t, []string{events.DepositRejected}, f.rec.Types())
}

func TestListDepositRequests(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "01711111111", "0")
	bob := f.user(t, "01822222222", "0")
	m := f.depositMethod(t, "0", "1")

	a1 := f.deposit(t, alice.ID, m.ID, "100")
	f.deposit(t, alice.ID, m.ID, "200")
	_, err := f.svc.CreateDepositRequest(f.ctx, CreateDepositInput{
		UserID: bob.ID, MethodID: m.ID, Amount: dec("300"), TransactionID: "BOBREF77",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveDeposit(f.ctx, a1.ID, "")
	require.NoError(t, err)

	pending, err := f.svc.ListDepositRequests(f.ctx, ListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pending.Pagination.Total)
	for _, r := range pending.Data {
		assert.Equal(t, models.StatusPending, r.Status)
		require.NotNil(t, r.User)
		require.NotNil(t, r.Method)
	}

	byTxn, err := f.svc.ListDepositRequests(f.ctx, ListQuery{Search: "bobref"})
	require.NoError(t, err)
	require.Len(t, byTxn.Data, 1)
	assert.Equal(t, bob.ID, byTxn.Data[0].UserID)

	byPhone, err := f.svc.ListDepositRequests(f.ctx, ListQuery{Search: "0171111"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byPhone.Pagination.Total)

	paged, err := f.svc.ListDepositRequests(f.ctx, ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Data, 1)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
	assert.EqualValues(t, 3, paged.Pagination.Total)

	_, err = f.svc.ListDepositRequests(f.ctx, ListQuery{Status: "settled"})
	assertKind(t, KindValidation, err)
}

func TestCreateDepositRequest_RejectsSubCentAmount(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")

	_, err := f.svc.CreateDepositRequest(f.ctx, CreateDepositInput{
		UserID: u.ID, MethodID: m.ID, Amount: dec("200.001"), TransactionID: "TXN123",
	})
	assertKind(t, KindValidation, err)
}

func TestCreateDepositRequest_InactiveUser(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	_, err := f.svc.CreateDepositRequest(f.ctx, CreateDepositInput{
		UserID: u.ID, MethodID: m.ID, Amount: dec("200"), TransactionID: "TXN123",
	})
	assertKind(t, KindValidation, err)
}

func TestRejectDeposit_PublishesWithoutBalanceWhenUnreadable(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "0")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")
	require.NoError(t, f.db.Delete(&models.User{}, u.ID).Error)

	_, err := f.svc.RejectDeposit(f.ctx, req.ID, "account closed")
	require.NoError(t, err)

	evts := f.rec.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.DepositRejected, evts[0].Type)
	assert.Nil(t, evts[0].Balance)
}

func TestRejectDeposit_PublishesCurrentBalance(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "01712345678", "75")
	m := f.depositMethod(t, "5", "2")
	req := f.deposit(t, u.ID, m.ID, "200")

	_, err := f.svc.RejectDeposit(f.ctx, req.ID, "not received")
	require.NoError(t, err)

	evts := f.rec.Events()
	require.Len(t, evts, 1)
	require.NotNil(t, evts[0].Balance)
	assertDec(t, "75", *evts[0].Balance)
}

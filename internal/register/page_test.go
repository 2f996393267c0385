package register

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

const checking = 1

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func split(accountID int64, amount string) model.Split {
	s := model.NewSplit()
	s.AccountId = accountID
	s.Amount = dec(amount)
	s.Status = model.SplitStatusEntered
	return s
}

func txn(id int64, splits ...model.Split) model.Transaction {
	t := model.NewTransaction()
	t.TransactionId = id
	t.Splits = splits
	return t
}

func TestRunningBalances(t *testing.T) {
	// Newest first: T3 +100, T2 -30, T1 +5 on checking.
	txns := []model.Transaction{
		txn(3, split(checking, "100"), split(2, "-100")),
		txn(2, split(checking, "-30"), split(3, "30")),
		txn(1, split(checking, "5"), split(4, "-5")),
	}
	rows := RunningBalances(checking, dec("500"), txns)

	require.Len(t, rows, 3)
	assert.Equal(t, "500", rows[0].Balance.String())
	assert.Equal(t, "400", rows[1].Balance.String())
	assert.Equal(t, "430", rows[2].Balance.String())
	assert.Equal(t, int64(3), rows[0].Transaction.TransactionId)
}

func TestRunningBalances_MultipleSplitsSameAccount(t *testing.T) {
	txns := []model.Transaction{
		txn(2, split(checking, "10"), split(checking, "15"), split(5, "-25")),
		txn(1, split(checking, "1")),
	}
	rows := RunningBalances(checking, dec("100"), txns)
	assert.Equal(t, "100", rows[0].Balance.String())
	assert.Equal(t, "75", rows[1].Balance.String())
}

func TestRunningBalances_Empty(t *testing.T) {
	assert.Empty(t, RunningBalances(checking, dec("12"), nil))
}

func TestRunningBalances_Exact(t *testing.T) {
	txns := []model.Transaction{
		txn(2, split(checking, "0.1")),
		txn(1, split(checking, "0.2")),
	}
	rows := RunningBalances(checking, dec("0.3"), txns)
	assert.Equal(t, "0.2", rows[1].Balance.String())
}

func TestNewPage_Reconcile(t *testing.T) {
	begin := dec("430")
	resp := model.AccountTransactionsList{
		TotalTransactions: 7,
		EndingBalance:     dec("500"),
		BeginningBalance:  &begin,
		Transactions: []model.Transaction{
			txn(3, split(checking, "100")),
			txn(2, split(checking, "-30")),
		},
	}
	p := NewPage(resp, checking, 0, 2)

	assert.Equal(t, int64(checking), p.Account.AccountId)
	assert.Equal(t, 4, p.NumPages())
	assert.Equal(t, "430", p.Residual().String())
	assert.NoError(t, p.Reconcile())

	wrong := dec("429")
	p.BeginningBalance = &wrong
	assert.ErrorIs(t, p.Reconcile(), ErrInconsistentPage)

	p.BeginningBalance = nil
	assert.NoError(t, p.Reconcile())
}

func TestConsecutivePagesChain(t *testing.T) {
	// The residual of page 0 is the ending balance of page 1.
	all := []model.Transaction{
		txn(4, split(checking, "4")),
		txn(3, split(checking, "3")),
		txn(2, split(checking, "2")),
		txn(1, split(checking, "1")),
	}
	p0 := NewPage(model.AccountTransactionsList{TotalTransactions: 4, EndingBalance: dec("10"), Transactions: all[:2]}, checking, 0, 2)
	p1 := NewPage(model.AccountTransactionsList{TotalTransactions: 4, EndingBalance: p0.Residual(), Transactions: all[2:]}, checking, 1, 2)

	assert.Equal(t, "3", p1.Rows[0].Balance.String())
	assert.Equal(t, "1", p1.Rows[1].Balance.String())
	assert.True(t, p1.Residual().IsZero())
}

func TestNumPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{5, 0, 0},
		{5, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NumPages(tt.total, tt.pageSize), "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, numPages, want int
	}{
		{0, 3, 0},
		{2, 3, 2},
		{3, 3, 2},
		{100, 3, 2},
		{-1, 3, 0},
		{5, 0, 0},
		{-5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPage(tt.page, tt.numPages), "page=%d numPages=%d", tt.page, tt.numPages)
	}
}

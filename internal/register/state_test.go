package register

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/tally/internal/model"
)

func fetchedPage(accountID int64, page int, ids ...int64) Page {
	resp := model.AccountTransactionsList{TotalTransactions: 45, EndingBalance: dec("12.50")}
	for _, id := range ids {
		resp.Transactions = append(resp.Transactions, txn(id, split(accountID, "1")))
	}
	return NewPage(resp, accountID, page, 20)
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, int64(-1), s.AccountID)
	assert.Equal(t, int64(-1), s.Selection)
	assert.Equal(t, 1, s.PageSize)
	assert.False(t, s.UpToDate)
	assert.True(t, s.EndingBalance.IsZero())
}

func TestRequestedThenFetched(t *testing.T) {
	s := InitialState().Requested(checking, 1, 20)
	assert.Equal(t, int64(checking), s.AccountID)
	assert.Equal(t, 1, s.Page)
	assert.Zero(t, s.NumPages)
	assert.Empty(t, s.TransactionIDs)
	assert.True(t, s.UpToDate)

	s = s.Fetched(fetchedPage(checking, 1, 9, 8, 7))
	assert.Equal(t, []int64{9, 8, 7}, s.TransactionIDs)
	assert.Equal(t, 3, s.NumPages)
	assert.Equal(t, "12.5", s.EndingBalance.String())
}

func TestFetched_StaleIgnored(t *testing.T) {
	s := InitialState().Requested(checking, 1, 20)

	assert.Equal(t, s, s.Fetched(fetchedPage(checking, 0, 1)))
	assert.Equal(t, s, s.Fetched(fetchedPage(2, 1, 1)))
}

func TestRemovedAndStale(t *testing.T) {
	s := InitialState().Requested(checking, 0, 20).Fetched(fetchedPage(checking, 0, 3, 2, 1))

	r := s.Removed(2)
	assert.Equal(t, []int64{3, 1}, r.TransactionIDs)
	assert.False(t, r.UpToDate)
	assert.Equal(t, []int64{3, 2, 1}, s.TransactionIDs, "receiver must be unchanged")

	assert.False(t, s.Stale().UpToDate)
	assert.True(t, s.UpToDate)
}

func TestSelection(t *testing.T) {
	s := InitialState().Selected(5)
	assert.Equal(t, int64(5), s.Selection)
	assert.Equal(t, int64(-1), s.SelectionCleared().Selection)
}

func TestTurn(t *testing.T) {
	s := InitialState().Requested(checking, 0, 20).Fetched(fetchedPage(checking, 0, 1))
	assert.Equal(t, 2, s.Turn(10).Page)
	assert.Equal(t, 0, s.Turn(-3).Page)
	assert.Equal(t, 1, s.Turn(1).Page)
	assert.Equal(t, 20, s.Turn(1).PageSize)
}

package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/register"
	"github.com/cleared-dev/tally/internal/report"
)

func acct(id, parent int64, name string) model.Account {
	a := model.NewAccount()
	a.AccountId = id
	a.ParentAccountId = parent
	a.SecurityId = 1
	a.Name = name
	return a
}

func split(accountID int64, amount string) model.Split {
	s := model.NewSplit()
	s.AccountId = accountID
	s.Amount = decimal.RequireFromString(amount)
	return s
}

func txn(id int64, splits ...model.Split) model.Transaction {
	t := model.NewTransaction()
	t.TransactionId = id
	t.Splits = splits
	return t
}

func TestReduce_AccountsFetched(t *testing.T) {
	s := Reduce(InitialState(), AccountsFetched{Accounts: []model.Account{acct(1, -1, "A"), acct(2, 1, "B")}})

	assert.Len(t, s.Accounts, 2)
	assert.Equal(t, []int64{2}, s.AccountChildren[1])
	assert.Empty(t, s.AccountChildren[2])
}

func TestReduce_SelectedAccountSurvivesRefetch(t *testing.T) {
	s := Reduce(InitialState(), AccountsFetched{Accounts: []model.Account{acct(1, -1, "A"), acct(2, 1, "B")}})
	s = Reduce(s, AccountSelected{AccountID: 2})

	kept := Reduce(s, AccountsFetched{Accounts: []model.Account{acct(2, -1, "B")}})
	assert.Equal(t, int64(2), kept.SelectedAccount)

	dropped := Reduce(s, AccountsFetched{Accounts: []model.Account{acct(1, -1, "A")}})
	assert.Equal(t, int64(-1), dropped.SelectedAccount)

	removed := Reduce(s, AccountRemoved{AccountID: 2})
	assert.Equal(t, int64(-1), removed.SelectedAccount)
	assert.Empty(t, removed.AccountChildren[1])
}

func TestReduce_AccountMutationsRebuildIndex(t *testing.T) {
	s := Reduce(InitialState(), AccountsFetched{Accounts: []model.Account{acct(1, -1, "A")}})
	s = Reduce(s, AccountCreated{Account: acct(3, 1, "C")})
	assert.Equal(t, []int64{3}, s.AccountChildren[1])

	moved := acct(3, -1, "C")
	s = Reduce(s, AccountUpdated{Account: moved})
	assert.Empty(t, s.AccountChildren[1])
	assert.True(t, s.Accounts[3].IsRootAccount())
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := Reduce(InitialState(), AccountsFetched{Accounts: []model.Account{acct(1, -1, "A")}})
	after := Reduce(before, AccountCreated{Account: acct(2, 1, "B")})

	assert.Len(t, before.Accounts, 1)
	assert.Empty(t, before.AccountChildren[1])
	assert.Len(t, after.Accounts, 2)

	withTxn := Reduce(after, TransactionCreated{Transaction: txn(5)})
	_ = Reduce(withTxn, TransactionRemoved{TransactionID: 5})
	assert.Contains(t, withTxn.Transactions, int64(5))
}

func TestReduce_RegisterFlow(t *testing.T) {
	s := Reduce(InitialState(), PageRequested{AccountID: 1, Page: 0, PageSize: 2})
	assert.True(t, s.Register.UpToDate)

	resp := model.AccountTransactionsList{
		TotalTransactions: 3,
		EndingBalance:     decimal.NewFromInt(10),
		Transactions:      []model.Transaction{txn(3, split(1, "4")), txn(2, split(1, "1"))},
	}
	s = Reduce(s, PageFetched{Page: register.NewPage(resp, 1, 0, 2)})
	assert.Equal(t, []int64{3, 2}, s.Register.TransactionIDs)
	assert.Equal(t, 2, s.Register.NumPages)
	require.Len(t, s.PageRows(), 2)
	assert.Equal(t, int64(3), s.PageRows()[0].TransactionId)

	s = Reduce(s, TransactionUpdated{Transaction: txn(2, split(1, "2"))})
	assert.False(t, s.Register.UpToDate)
	assert.Equal(t, "2", s.Transactions[2].Splits[0].Amount.String())

	s = Reduce(s, TransactionRemoved{TransactionID: 3})
	assert.Equal(t, []int64{2}, s.Register.TransactionIDs)
	assert.NotContains(t, s.Transactions, int64(3))

	s = Reduce(s, TransactionSelected{TransactionID: 2})
	assert.Equal(t, int64(2), s.Register.Selection)
	s = Reduce(s, SelectionCleared{})
	assert.Equal(t, int64(-1), s.Register.Selection)
}

func TestReduce_StalePageIgnored(t *testing.T) {
	s := Reduce(InitialState(), PageRequested{AccountID: 1, Page: 1, PageSize: 2})
	resp := model.AccountTransactionsList{Transactions: []model.Transaction{txn(9)}}
	next := Reduce(s, PageFetched{Page: register.NewPage(resp, 1, 0, 2)})

	assert.Empty(t, next.Transactions)
	assert.Empty(t, next.Register.TransactionIDs)
}

func TestReduce_Reports(t *testing.T) {
	tab := &model.Tabulation{ReportId: 4, Title: "Spending", Series: map[string]*model.Series{
		"Food": {Values: []float64{1}, Series: map[string]*model.Series{}},
	}}
	s := Reduce(InitialState(), ReportSelected{ReportID: 4})
	s = Reduce(s, TabulationFetched{Tabulation: tab})
	s = Reduce(s, SeriesSelected{Drill: report.NewDrill(tab)})

	assert.Equal(t, int64(4), s.SelectedReport)
	assert.Same(t, tab, s.Tabulations[4])
	require.NotNil(t, s.Drill)
	assert.Equal(t, []float64{1}, s.Drill.Flattened["Food"])

	s = Reduce(s, ReportSelected{ReportID: 5})
	assert.Nil(t, s.Drill)
}

func TestReduce_ImportAndErrors(t *testing.T) {
	s := Reduce(InitialState(), ImportStarted{})
	assert.True(t, s.Import.Importing)

	failed := Reduce(s, ImportFailed{Message: "bad file"})
	assert.False(t, failed.Import.Importing)
	assert.True(t, failed.Import.Failed)
	assert.Equal(t, "bad file", failed.Import.ErrorMessage)

	done := Reduce(s, ImportFinished{Count: 3})
	assert.True(t, done.Import.Finished)
	assert.Equal(t, 3, done.Import.Count)

	e := model.NewError(model.ErrInUse)
	s = Reduce(s, ErrorRaised{Err: e})
	assert.Same(t, e, s.Error)
	s = Reduce(s, ErrorCleared{})
	assert.Nil(t, s.Error)
}

func TestReduce_LoggedOut(t *testing.T) {
	s := Reduce(InitialState(), AccountsFetched{Accounts: []model.Account{acct(1, -1, "A")}})
	s = Reduce(s, TransactionSelected{TransactionID: 3})
	s = Reduce(s, LoggedOut{})

	assert.Empty(t, s.Accounts)
	assert.Equal(t, int64(-1), s.Register.Selection)
}

func TestEventNames(t *testing.T) {
	events := []Event{
		AccountsFetched{}, AccountCreated{}, AccountUpdated{}, AccountRemoved{}, AccountSelected{},
		SecuritiesFetched{}, PageRequested{}, PageFetched{}, TransactionCreated{}, TransactionUpdated{},
		TransactionRemoved{}, TransactionSelected{}, SelectionCleared{}, TabulationFetched{Tabulation: &model.Tabulation{}},
		ReportSelected{}, SeriesSelected{}, ImportStarted{}, ImportFinished{}, ImportFailed{},
		ErrorRaised{Err: model.NewError(1)}, ErrorCleared{}, LoggedOut{},
	}
	seen := map[string]bool{}
	for _, e := range events {
		assert.False(t, seen[e.Name()], "duplicate name %s", e.Name())
		seen[e.Name()] = true
		_ = e.Details()
	}
}

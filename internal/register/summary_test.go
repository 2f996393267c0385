package register

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

type securities map[int64]model.Security

func (m securities) Security(id int64) (model.Security, bool) {
	s, ok := m[id]
	return s, ok
}

var usd = model.Security{SecurityId: 1, Symbol: "$", Precision: 2, Type: model.SecurityTypeCurrency}

func chart() map[int64]model.Account {
	mk := func(id, parent int64, name string) model.Account {
		a := model.NewAccount()
		a.AccountId = id
		a.ParentAccountId = parent
		a.SecurityId = 1
		a.Name = name
		return a
	}
	return map[int64]model.Account{
		1: mk(1, -1, "Checking"),
		2: mk(2, -1, "Expenses"),
		3: mk(3, 2, "Food"),
	}
}

func TestCounterpart(t *testing.T) {
	secs := securities{1: usd}
	accts := chart()

	twoWay := txn(1, split(checking, "-5"), split(3, "5"))
	assert.Equal(t, "Expenses/Food", Counterpart(twoWay, checking, accts, secs))
	assert.Equal(t, "Checking", Counterpart(twoWay, 3, accts, secs))

	open := split(-1, "5")
	open.SecurityId = 1
	assert.Equal(t, "Unbalanced $ transaction", Counterpart(txn(2, split(checking, "-5"), open), checking, accts, secs))

	three := txn(3, split(checking, "-5"), split(3, "4"), split(2, "1"))
	assert.Equal(t, SplitTransactionLabel, Counterpart(three, checking, accts, secs))

	assert.Equal(t, "Unknown account 99", Counterpart(txn(4, split(checking, "1"), split(99, "-1")), checking, accts, secs))
}

func TestAmountAndFirstSplit(t *testing.T) {
	tx := txn(1, split(checking, "-5"), split(checking, "-2.5"), split(3, "7.5"))
	assert.Equal(t, "-7.5", Amount(tx, checking).String())
	assert.True(t, Amount(tx, 42).IsZero())

	s, ok := FirstSplit(tx, checking)
	require.True(t, ok)
	assert.Equal(t, "-5", s.Amount.String())
	_, ok = FirstSplit(tx, 42)
	assert.False(t, ok)
}

func TestWriteCSV(t *testing.T) {
	first := split(checking, "-5")
	first.Number = "1001"
	first.Status = model.SplitStatusCleared
	tx := txn(1, first, split(3, "5"))
	tx.Date = date(2024, 3, 9)
	tx.Description = "Lunch"

	f := Formatter{AccountID: checking, Accounts: chart(), Securities: securities{1: usd}, Security: usd}
	var buf bytes.Buffer
	require.NoError(t, f.WriteCSV(&buf, RunningBalances(checking, dec("95"), []model.Transaction{tx})))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"date", "number", "description", "account", "status", "amount", "balance"}, records[0])
	assert.Equal(t, []string{"2024-03-09", "1001", "Lunch", "Expenses/Food", "Cleared", "-5.00", "95.00"}, records[1])
}

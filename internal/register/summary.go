package register

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/model"
)

// SplitTransactionLabel is shown for transactions with more than two splits.
const SplitTransactionLabel = "--Split Transaction--"

// SecurityLookup resolves security IDs.
type SecurityLookup interface {
	Security(id int64) (model.Security, bool)
}

// Counterpart describes where a two-split transaction's money went from
// accountID's point of view.
func Counterpart(t model.Transaction, accountID int64, accts map[int64]model.Account, securities SecurityLookup) string {
	if len(t.Splits) != 2 {
		return SplitTransactionLabel
	}
	other := t.Splits[0]
	if other.AccountId == accountID {
		other = t.Splits[1]
	}
	if other.Unassigned() {
		symbol := "?"
		if sec, ok := securities.Security(other.SecurityId); ok {
			symbol = sec.Symbol
		}
		return fmt.Sprintf("Unbalanced %s transaction", symbol)
	}
	a, ok := accts[other.AccountId]
	if !ok {
		return fmt.Sprintf("Unknown account %d", other.AccountId)
	}
	name, err := accounts.DisplayName(a, accts)
	if err != nil {
		return a.Name
	}
	return name
}

// Amount sums the splits of t posted to accountID.
func Amount(t model.Transaction, accountID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range t.SplitsFor(accountID) {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// FirstSplit returns the first split of t posted to accountID.
func FirstSplit(t model.Transaction, accountID int64) (model.Split, bool) {
	for _, s := range t.Splits {
		if s.AccountId == accountID {
			return s, true
		}
	}
	return model.Split{}, false
}

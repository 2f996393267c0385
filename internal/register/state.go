package register

import (
	"slices"

	"github.com/shopspring/decimal"
)

// State tracks which register page is shown. Transitions return a new State
// and never modify the receiver.
type State struct {
	AccountID      int64
	PageSize       int
	Page           int
	NumPages       int
	TransactionIDs []int64
	EndingBalance  decimal.Decimal
	Selection      int64 // -1 = none
	UpToDate       bool
}

// InitialState is the register before any account is chosen.
func InitialState() State {
	return State{
		AccountID:      -1,
		PageSize:       1,
		TransactionIDs: []int64{},
		EndingBalance:  decimal.Zero,
		Selection:      -1,
	}
}

// Requested starts loading a page, clearing whatever was shown.
func (s State) Requested(accountID int64, page, pageSize int) State {
	s.AccountID = accountID
	s.Page = page
	s.PageSize = pageSize
	s.NumPages = 0
	s.TransactionIDs = []int64{}
	s.EndingBalance = decimal.Zero
	s.UpToDate = true
	return s
}

// Fetched installs a loaded page. A page for a different account or page
// index than the one last requested is stale and ignored.
func (s State) Fetched(p Page) State {
	if !s.Accepts(p) {
		return s
	}
	ids := make([]int64, len(p.Rows))
	for i, r := range p.Rows {
		ids[i] = r.Transaction.TransactionId
	}
	s.PageSize = p.PageSize
	s.NumPages = p.NumPages()
	s.TransactionIDs = ids
	s.EndingBalance = p.EndingBalance
	s.UpToDate = true
	return s
}

// Accepts reports whether p answers the most recent request.
func (s State) Accepts(p Page) bool {
	return p.Account.AccountId == s.AccountID && p.Page == s.Page
}

// Stale marks the page as needing a refetch after a transaction changed.
func (s State) Stale() State {
	s.UpToDate = false
	return s
}

// Removed drops a deleted transaction from the page.
func (s State) Removed(transactionID int64) State {
	s.TransactionIDs = slices.DeleteFunc(slices.Clone(s.TransactionIDs), func(id int64) bool {
		return id == transactionID
	})
	s.UpToDate = false
	return s
}

// Selected marks a transaction as the one being edited.
func (s State) Selected(transactionID int64) State {
	s.Selection = transactionID
	return s
}

// SelectionCleared ends editing.
func (s State) SelectionCleared() State {
	s.Selection = -1
	return s
}

// Turn returns the state after a request to move to page, clamped to the
// pages currently known.
func (s State) Turn(page int) State {
	return s.Requested(s.AccountID, ClampPage(page, s.NumPages), s.PageSize)
}

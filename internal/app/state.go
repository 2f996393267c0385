// Package app holds the client application state and the pure reducer that
// applies events to it.
package app

import (
	"maps"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/register"
	"github.com/cleared-dev/tally/internal/report"
)

// ImportState tracks an in-flight statement import.
type ImportState struct {
	Importing    bool
	Finished     bool
	Failed       bool
	Count        int
	ErrorMessage string
}

// State is everything the client knows. Collections are maps keyed by ID;
// AccountChildren is derived from Accounts and rebuilt whenever it changes.
type State struct {
	Accounts        map[int64]model.Account
	AccountChildren map[int64][]int64
	SelectedAccount int64
	Securities      map[int64]model.Security
	Transactions    map[int64]model.Transaction
	Register        register.State
	Tabulations     map[int64]*model.Tabulation
	SelectedReport  int64
	Drill           *report.Drill
	Import          ImportState
	Error           *model.Error
}

// InitialState is the state before anything has been fetched.
func InitialState() State {
	return State{
		Accounts:        map[int64]model.Account{},
		AccountChildren: map[int64][]int64{},
		SelectedAccount: -1,
		Securities:      map[int64]model.Security{},
		Transactions:    map[int64]model.Transaction{},
		Register:        register.InitialState(),
		Tabulations:     map[int64]*model.Tabulation{},
		SelectedReport:  -1,
	}
}

// AccountLookup exposes the account collection to validators.
func (s State) AccountLookup() ledger.Accounts {
	return ledger.Accounts(s.Accounts)
}

// Security implements register.SecurityLookup.
func (s State) Security(id int64) (model.Security, bool) {
	sec, ok := s.Securities[id]
	return sec, ok
}

// PageRows returns the loaded register page in display order.
func (s State) PageRows() []model.Transaction {
	rows := make([]model.Transaction, 0, len(s.Register.TransactionIDs))
	for _, id := range s.Register.TransactionIDs {
		if t, ok := s.Transactions[id]; ok {
			rows = append(rows, t)
		}
	}
	return rows
}

// Reduce returns the state after applying e. It never modifies s.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case AccountsFetched:
		next := make(map[int64]model.Account, len(e.Accounts))
		for _, a := range e.Accounts {
			next[a.AccountId] = a
		}
		s = s.withAccounts(next)
		if _, ok := next[s.SelectedAccount]; !ok {
			s.SelectedAccount = -1
		}
	case AccountCreated:
		s = s.putAccount(e.Account)
	case AccountUpdated:
		s = s.putAccount(e.Account)
	case AccountRemoved:
		next := maps.Clone(s.Accounts)
		delete(next, e.AccountID)
		s = s.withAccounts(next)
		if s.SelectedAccount == e.AccountID {
			s.SelectedAccount = -1
		}
	case AccountSelected:
		s.SelectedAccount = e.AccountID

	case SecuritiesFetched:
		next := make(map[int64]model.Security, len(e.Securities))
		for _, sec := range e.Securities {
			next[sec.SecurityId] = sec
		}
		s.Securities = next

	case PageRequested:
		s.Register = s.Register.Requested(e.AccountID, e.Page, e.PageSize)
	case PageFetched:
		if !s.Register.Accepts(e.Page) {
			break
		}
		next := maps.Clone(s.Transactions)
		for _, r := range e.Page.Rows {
			next[r.Transaction.TransactionId] = r.Transaction
		}
		s.Transactions = next
		s.Register = s.Register.Fetched(e.Page)
	case TransactionCreated:
		s = s.putTransaction(e.Transaction)
	case TransactionUpdated:
		s = s.putTransaction(e.Transaction)
	case TransactionRemoved:
		next := maps.Clone(s.Transactions)
		delete(next, e.TransactionID)
		s.Transactions = next
		s.Register = s.Register.Removed(e.TransactionID)
	case TransactionSelected:
		s.Register = s.Register.Selected(e.TransactionID)
	case SelectionCleared:
		s.Register = s.Register.SelectionCleared()

	case TabulationFetched:
		next := maps.Clone(s.Tabulations)
		next[e.Tabulation.ReportId] = e.Tabulation
		s.Tabulations = next
	case ReportSelected:
		s.SelectedReport = e.ReportID
		s.Drill = nil
	case SeriesSelected:
		d := e.Drill
		s.Drill = &d

	case ImportStarted:
		s.Import = ImportState{Importing: true}
	case ImportFinished:
		s.Import = ImportState{Finished: true, Count: e.Count}
	case ImportFailed:
		s.Import = ImportState{Failed: true, ErrorMessage: e.Message}

	case ErrorRaised:
		s.Error = e.Err
	case ErrorCleared:
		s.Error = nil

	case LoggedOut:
		s = InitialState()
	}
	return s
}

func (s State) withAccounts(next map[int64]model.Account) State {
	s.Accounts = next
	s.AccountChildren = accounts.BuildChildren(next)
	return s
}

func (s State) putAccount(a model.Account) State {
	next := maps.Clone(s.Accounts)
	next[a.AccountId] = a
	return s.withAccounts(next)
}

func (s State) putTransaction(t model.Transaction) State {
	next := maps.Clone(s.Transactions)
	next[t.TransactionId] = t
	s.Transactions = next
	s.Register = s.Register.Stale()
	return s
}

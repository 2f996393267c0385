package app

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/register"
	"github.com/cleared-dev/tally/internal/report"
)

// Event is a single state transition request. Name identifies the event in
// logs; Details summarizes its payload.
type Event interface {
	Name() string
	Details() string
}

type (
	AccountsFetched struct{ Accounts []model.Account }
	AccountCreated  struct{ Account model.Account }
	AccountUpdated  struct{ Account model.Account }
	AccountRemoved  struct{ AccountID int64 }
	AccountSelected struct{ AccountID int64 }

	SecuritiesFetched struct{ Securities []model.Security }

	PageRequested struct {
		AccountID int64
		Page      int
		PageSize  int
	}
	PageFetched         struct{ Page register.Page }
	TransactionCreated  struct{ Transaction model.Transaction }
	TransactionUpdated  struct{ Transaction model.Transaction }
	TransactionRemoved  struct{ TransactionID int64 }
	TransactionSelected struct{ TransactionID int64 }
	SelectionCleared    struct{}

	TabulationFetched struct{ Tabulation *model.Tabulation }
	ReportSelected    struct{ ReportID int64 }
	SeriesSelected    struct{ Drill report.Drill }

	ImportStarted  struct{}
	ImportFinished struct{ Count int }
	ImportFailed   struct{ Message string }

	ErrorRaised  struct{ Err *model.Error }
	ErrorCleared struct{}

	LoggedOut struct{}
)

func (AccountsFetched) Name() string     { return "accounts_fetched" }
func (AccountCreated) Name() string      { return "account_created" }
func (AccountUpdated) Name() string      { return "account_updated" }
func (AccountRemoved) Name() string      { return "account_removed" }
func (AccountSelected) Name() string     { return "account_selected" }
func (SecuritiesFetched) Name() string   { return "securities_fetched" }
func (PageRequested) Name() string       { return "page_requested" }
func (PageFetched) Name() string         { return "page_fetched" }
func (TransactionCreated) Name() string  { return "transaction_created" }
func (TransactionUpdated) Name() string  { return "transaction_updated" }
func (TransactionRemoved) Name() string  { return "transaction_removed" }
func (TransactionSelected) Name() string { return "transaction_selected" }
func (SelectionCleared) Name() string    { return "selection_cleared" }
func (TabulationFetched) Name() string   { return "tabulation_fetched" }
func (ReportSelected) Name() string      { return "report_selected" }
func (SeriesSelected) Name() string      { return "series_selected" }
func (ImportStarted) Name() string       { return "import_started" }
func (ImportFinished) Name() string      { return "import_finished" }
func (ImportFailed) Name() string        { return "import_failed" }
func (ErrorRaised) Name() string         { return "error_raised" }
func (ErrorCleared) Name() string        { return "error_cleared" }
func (LoggedOut) Name() string           { return "logged_out" }

func (e AccountsFetched) Details() string   { return fmt.Sprintf("%d accounts", len(e.Accounts)) }
func (e AccountCreated) Details() string    { return fmt.Sprintf("account %d", e.Account.AccountId) }
func (e AccountUpdated) Details() string    { return fmt.Sprintf("account %d", e.Account.AccountId) }
func (e AccountRemoved) Details() string    { return fmt.Sprintf("account %d", e.AccountID) }
func (e AccountSelected) Details() string   { return fmt.Sprintf("account %d", e.AccountID) }
func (e SecuritiesFetched) Details() string { return fmt.Sprintf("%d securities", len(e.Securities)) }
func (e PageRequested) Details() string {
	return fmt.Sprintf("account %d page %d size %d", e.AccountID, e.Page, e.PageSize)
}
func (e PageFetched) Details() string {
	return fmt.Sprintf("account %d page %d: %d rows", e.Page.Account.AccountId, e.Page.Page, len(e.Page.Rows))
}
func (e TransactionCreated) Details() string {
	return fmt.Sprintf("transaction %d", e.Transaction.TransactionId)
}
func (e TransactionUpdated) Details() string {
	return fmt.Sprintf("transaction %d", e.Transaction.TransactionId)
}
func (e TransactionRemoved) Details() string  { return fmt.Sprintf("transaction %d", e.TransactionID) }
func (e TransactionSelected) Details() string { return fmt.Sprintf("transaction %d", e.TransactionID) }
func (SelectionCleared) Details() string      { return "" }
func (e TabulationFetched) Details() string   { return fmt.Sprintf("report %d", e.Tabulation.ReportId) }
func (e ReportSelected) Details() string      { return fmt.Sprintf("report %d", e.ReportID) }
func (e SeriesSelected) Details() string      { return fmt.Sprintf("path %q", e.Drill.Path) }
func (ImportStarted) Details() string         { return "" }
func (e ImportFinished) Details() string      { return fmt.Sprintf("%d transactions", e.Count) }
func (e ImportFailed) Details() string        { return e.Message }
func (e ErrorRaised) Details() string         { return fmt.Sprintf("%d: %s", e.Err.ErrorId, e.Err.ErrorString) }
func (ErrorCleared) Details() string          { return "" }
func (LoggedOut) Details() string             { return "" }

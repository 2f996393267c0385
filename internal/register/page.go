// Package register models one account's paginated transaction history and
// reconstructs the running balance shown beside each row.
package register

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrInconsistentPage is returned when a page's balances do not agree with
// its transactions.
var ErrInconsistentPage = errors.New("page balances do not match its transactions")

// Row is one transaction of a page with the account balance immediately
// after it was applied.
type Row struct {
	Transaction model.Transaction
	Balance     decimal.Decimal
}

// Page is one fetched page of an account register, newest first.
type Page struct {
	Account           model.Account
	PageSize          int
	Page              int
	TotalTransactions int64
	EndingBalance     decimal.Decimal
	BeginningBalance  *decimal.Decimal
	Rows              []Row
}

// NewPage builds a Page from a server response. EndingBalance is the balance
// as of the newest transaction on the page.
func NewPage(resp model.AccountTransactionsList, accountID int64, page, pageSize int) Page {
	p := Page{
		Account:           model.NewAccount(),
		PageSize:          pageSize,
		Page:              page,
		TotalTransactions: resp.TotalTransactions,
		EndingBalance:     resp.EndingBalance,
		BeginningBalance:  resp.BeginningBalance,
		Rows:              RunningBalances(accountID, resp.EndingBalance, resp.Transactions),
	}
	if resp.Account != nil {
		p.Account = *resp.Account
	}
	p.Account.AccountId = accountID
	return p
}

// RunningBalances walks txns newest first, assigning each row the current
// balance before backing out that transaction's splits on accountID.
func RunningBalances(accountID int64, ending decimal.Decimal, txns []model.Transaction) []Row {
	rows := make([]Row, 0, len(txns))
	balance := ending
	for _, t := range txns {
		rows = append(rows, Row{Transaction: t, Balance: balance})
		for _, s := range t.SplitsFor(accountID) {
			balance = balance.Sub(s.Amount)
		}
	}
	return rows
}

// Residual is the balance left after backing out every row on the page: the
// balance before the page's oldest transaction.
func (p Page) Residual() decimal.Decimal {
	balance := p.EndingBalance
	for _, r := range p.Rows {
		for _, s := range r.Transaction.SplitsFor(p.Account.AccountId) {
			balance = balance.Sub(s.Amount)
		}
	}
	return balance
}

// Reconcile checks the residual against BeginningBalance when the server
// supplied one.
func (p Page) Reconcile() error {
	if p.BeginningBalance == nil {
		return nil
	}
	if got := p.Residual(); !got.Equal(*p.BeginningBalance) {
		return fmt.Errorf("%w: beginning balance %s, transactions imply %s",
			ErrInconsistentPage, p.BeginningBalance.String(), got.String())
	}
	return nil
}

// NumPages returns the number of pages needed for total transactions.
func (p Page) NumPages() int {
	return NumPages(p.TotalTransactions, p.PageSize)
}

// NumPages is ceil(total/pageSize), or 0 when pageSize is not positive.
func NumPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

// ClampPage bounds a requested page index to [0, numPages-1]. With no pages
// it returns 0.
func ClampPage(page, numPages int) int {
	if page > numPages-1 {
		page = numPages - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

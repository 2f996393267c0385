package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/register"
	"github.com/cleared-dev/tally/internal/report"
)

// Backend is the server the controller reads from and writes to.
type Backend interface {
	Accounts(ctx context.Context) ([]model.Account, error)
	CreateAccount(ctx context.Context, a model.Account) (model.Account, error)
	UpdateAccount(ctx context.Context, a model.Account) (model.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	Securities(ctx context.Context) ([]model.Security, error)
	TransactionPage(ctx context.Context, accountID int64, page, pageSize int) (model.AccountTransactionsList, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	Tabulation(ctx context.Context, reportID int64) (*model.Tabulation, error)
	ImportOFXFile(ctx context.Context, accountID int64, name string, r io.Reader) error
	ImportOFXDownload(ctx context.Context, accountID int64, password string, start, end time.Time) error
}

// Controller runs user operations: it validates, calls the backend, and
// dispatches the outcome to the store.
type Controller struct {
	backend Backend
	store   *Store
	logger  *slog.Logger
}

// NewController wires a backend to a store.
func NewController(backend Backend, store *Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{backend: backend, store: store, logger: logger}
}

// Store returns the controller's store.
func (c *Controller) Store() *Store {
	return c.store
}

// fail records a server or transport error in state and returns err.
func (c *Controller) fail(err error) error {
	var e *model.Error
	if errors.As(err, &e) {
		c.store.Dispatch(ErrorRaised{Err: e})
	}
	return err
}

// LoadAccounts replaces the account collection with the server's.
func (c *Controller) LoadAccounts(ctx context.Context) error {
	accts, err := c.backend.Accounts(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("fetching accounts: %w", err))
	}
	c.store.Dispatch(AccountsFetched{Accounts: accts})
	return nil
}

// LoadSecurities replaces the security collection with the server's.
func (c *Controller) LoadSecurities(ctx context.Context) error {
	secs, err := c.backend.Securities(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("fetching securities: %w", err))
	}
	c.store.Dispatch(SecuritiesFetched{Securities: secs})
	return nil
}

// CreateAccount adds an account on the server.
func (c *Controller) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if err := a.CheckOFXAcctType(); err != nil {
		return model.Account{}, err
	}
	created, err := c.backend.CreateAccount(ctx, a)
	if err != nil {
		return model.Account{}, c.fail(fmt.Errorf("creating account: %w", err))
	}
	c.store.Dispatch(AccountCreated{Account: created})
	return created, nil
}

// UpdateAccount saves changes to an existing account.
func (c *Controller) UpdateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if err := a.CheckOFXAcctType(); err != nil {
		return model.Account{}, err
	}
	updated, err := c.backend.UpdateAccount(ctx, a)
	if err != nil {
		return model.Account{}, c.fail(fmt.Errorf("updating account: %w", err))
	}
	c.store.Dispatch(AccountUpdated{Account: updated})
	return updated, nil
}

// DeleteAccount removes an account.
func (c *Controller) DeleteAccount(ctx context.Context, id int64) error {
	if err := c.backend.DeleteAccount(ctx, id); err != nil {
		return c.fail(fmt.Errorf("deleting account %d: %w", id, err))
	}
	c.store.Dispatch(AccountRemoved{AccountID: id})
	return nil
}

// SelectAccount shows the first page of an account's register.
func (c *Controller) SelectAccount(ctx context.Context, accountID int64, pageSize int) (register.Page, error) {
	c.store.Dispatch(AccountSelected{AccountID: accountID})
	return c.fetchPage(ctx, accountID, 0, pageSize)
}

// GoToPage moves the current register to page, clamped to the known range.
func (c *Controller) GoToPage(ctx context.Context, page int) (register.Page, error) {
	reg := c.store.State().Register
	return c.fetchPage(ctx, reg.AccountID, register.ClampPage(page, reg.NumPages), reg.PageSize)
}

// Refresh refetches the current page if a change made it stale.
func (c *Controller) Refresh(ctx context.Context) error {
	reg := c.store.State().Register
	if reg.UpToDate || reg.AccountID == -1 {
		return nil
	}
	_, err := c.fetchPage(ctx, reg.AccountID, reg.Page, reg.PageSize)
	return err
}

func (c *Controller) fetchPage(ctx context.Context, accountID int64, page, pageSize int) (register.Page, error) {
	c.store.Dispatch(PageRequested{AccountID: accountID, Page: page, PageSize: pageSize})

	resp, err := c.backend.TransactionPage(ctx, accountID, page, pageSize)
	if err != nil {
		return register.Page{}, c.fail(fmt.Errorf("fetching page %d of account %d: %w", page, accountID, err))
	}
	p := register.NewPage(resp, accountID, page, pageSize)
	if err := p.Reconcile(); err != nil {
		c.logger.Warn("register page does not reconcile", "account", accountID, "page", page, "error", err)
	}
	c.store.Dispatch(PageFetched{Page: p})
	return p, nil
}

// CreateTransaction validates t against the known accounts and submits it.
// Validation failures never reach the backend.
func (c *Controller) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := ledger.CheckSubmittable(t, c.store.State().AccountLookup()); err != nil {
		return model.Transaction{}, err
	}
	created, err := c.backend.CreateTransaction(ctx, t)
	if err != nil {
		return model.Transaction{}, c.fail(fmt.Errorf("creating transaction: %w", err))
	}
	c.store.Dispatch(TransactionCreated{Transaction: created})
	return created, c.Refresh(ctx)
}

// UpdateTransaction validates and saves an edited transaction.
func (c *Controller) UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if err := ledger.CheckSubmittable(t, c.store.State().AccountLookup()); err != nil {
		return model.Transaction{}, err
	}
	updated, err := c.backend.UpdateTransaction(ctx, t)
	if err != nil {
		return model.Transaction{}, c.fail(fmt.Errorf("updating transaction %d: %w", t.TransactionId, err))
	}
	c.store.Dispatch(TransactionUpdated{Transaction: updated})
	c.store.Dispatch(SelectionCleared{})
	return updated, c.Refresh(ctx)
}

// DeleteTransaction removes a transaction.
func (c *Controller) DeleteTransaction(ctx context.Context, id int64) error {
	if err := c.backend.DeleteTransaction(ctx, id); err != nil {
		return c.fail(fmt.Errorf("deleting transaction %d: %w", id, err))
	}
	c.store.Dispatch(TransactionRemoved{TransactionID: id})
	c.store.Dispatch(SelectionCleared{})
	return c.Refresh(ctx)
}

// LoadReport fetches a report's tabulation and shows its top level.
func (c *Controller) LoadReport(ctx context.Context, reportID int64) (report.Drill, error) {
	c.store.Dispatch(ReportSelected{ReportID: reportID})
	tab, err := c.backend.Tabulation(ctx, reportID)
	if err != nil {
		return report.Drill{}, c.fail(fmt.Errorf("fetching report %d: %w", reportID, err))
	}
	c.store.Dispatch(TabulationFetched{Tabulation: tab})
	d := report.NewDrill(tab)
	c.store.Dispatch(SeriesSelected{Drill: d})
	return d, nil
}

// SelectSeries moves the selected report's view to path. On error the
// current view is kept.
func (c *Controller) SelectSeries(path []string) (report.Drill, error) {
	st := c.store.State()
	tab, ok := st.Tabulations[st.SelectedReport]
	if !ok {
		return report.Drill{}, fmt.Errorf("report %d has not been loaded", st.SelectedReport)
	}
	d, err := report.SelectSeries(tab, path)
	if err != nil {
		return report.Drill{}, err
	}
	c.store.Dispatch(SeriesSelected{Drill: d})
	return d, nil
}

// ImportOFX uploads a statement for an account. An Invalid Request reply is
// reported with guidance about the file.
func (c *Controller) ImportOFX(ctx context.Context, accountID int64, name string, r io.Reader) error {
	c.store.Dispatch(ImportStarted{})
	if err := c.backend.ImportOFXFile(ctx, accountID, name, r); err != nil {
		err = model.RemapInvalidRequest(err, model.OFXFileImportHint)
		c.store.Dispatch(ImportFailed{Message: err.Error()})
		return c.fail(fmt.Errorf("importing %s: %w", name, err))
	}
	c.store.Dispatch(ImportFinished{})
	if reg := c.store.State().Register; reg.AccountID == accountID {
		_, err := c.fetchPage(ctx, accountID, reg.Page, reg.PageSize)
		return err
	}
	return nil
}

// DownloadOFX has the server fetch a statement from the bank for an account.
// An Invalid Request reply usually means the bank rejected the credentials.
func (c *Controller) DownloadOFX(ctx context.Context, accountID int64, password string, start, end time.Time) error {
	c.store.Dispatch(ImportStarted{})
	if err := c.backend.ImportOFXDownload(ctx, accountID, password, start, end); err != nil {
		err = model.RemapInvalidRequest(err, model.OFXDownloadImportHint)
		c.store.Dispatch(ImportFailed{Message: err.Error()})
		return c.fail(fmt.Errorf("downloading statement for account %d: %w", accountID, err))
	}
	c.store.Dispatch(ImportFinished{})
	return c.Refresh(ctx)
}

// ImportTransactions submits locally parsed transactions one by one, stopping
// at the first failure. Every split must already be posted to a known account.
func (c *Controller) ImportTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	c.store.Dispatch(ImportStarted{})
	for i, t := range txns {
		if _, err := c.CreateTransaction(ctx, t); err != nil {
			c.store.Dispatch(ImportFailed{Message: err.Error()})
			return i, fmt.Errorf("importing transaction %d: %w", i, err)
		}
	}
	c.store.Dispatch(ImportFinished{Count: len(txns)})
	return len(txns), nil
}

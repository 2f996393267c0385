package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/cleared-dev/tally/internal/app"
	"github.com/cleared-dev/tally/internal/model"
)

// Snapshot kinds.
const (
	KindAccounts   = "accounts"
	KindSecurities = "securities"
	KindPage       = "page"
	KindTabulation = "tabulation"
)

const allKey = "all"

func pageKey(accountID int64, page, pageSize int) string {
	return fmt.Sprintf("%d:%d:%d", accountID, page, pageSize)
}

// Recorder passes every call through to a live backend and stores each
// successful read.
type Recorder struct {
	app.Backend
	store  *Store
	logger *slog.Logger
}

// NewRecorder wraps next so its reads are cached in store.
func NewRecorder(next app.Backend, store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{Backend: next, store: store, logger: logger}
}

func (r *Recorder) save(ctx context.Context, kind, key string, v any) {
	if err := r.store.Put(ctx, kind, key, v); err != nil {
		r.logger.Warn("cache write failed", "kind", kind, "key", key, "error", err)
	}
}

func (r *Recorder) Accounts(ctx context.Context) ([]model.Account, error) {
	accts, err := r.Backend.Accounts(ctx)
	if err == nil {
		r.save(ctx, KindAccounts, allKey, accts)
	}
	return accts, err
}

func (r *Recorder) Securities(ctx context.Context) ([]model.Security, error) {
	secs, err := r.Backend.Securities(ctx)
	if err == nil {
		r.save(ctx, KindSecurities, allKey, secs)
	}
	return secs, err
}

func (r *Recorder) TransactionPage(ctx context.Context, accountID int64, page, pageSize int) (model.AccountTransactionsList, error) {
	resp, err := r.Backend.TransactionPage(ctx, accountID, page, pageSize)
	if err == nil {
		r.save(ctx, KindPage, pageKey(accountID, page, pageSize), resp)
	}
	return resp, err
}

func (r *Recorder) Tabulation(ctx context.Context, reportID int64) (*model.Tabulation, error) {
	tab, err := r.Backend.Tabulation(ctx, reportID)
	if err == nil {
		r.save(ctx, KindTabulation, strconv.FormatInt(reportID, 10), tab)
	}
	return tab, err
}

// ErrOffline is returned by Offline for any write.
var ErrOffline = errors.New("offline")

// Offline serves reads from the cache and refuses writes.
type Offline struct {
	store *Store
}

// NewOffline returns a backend backed only by store.
func NewOffline(store *Store) *Offline {
	return &Offline{store: store}
}

func (o *Offline) Accounts(ctx context.Context) ([]model.Account, error) {
	var accts []model.Account
	_, err := o.store.Get(ctx, KindAccounts, allKey, &accts)
	return accts, err
}

func (o *Offline) Securities(ctx context.Context) ([]model.Security, error) {
	var secs []model.Security
	_, err := o.store.Get(ctx, KindSecurities, allKey, &secs)
	return secs, err
}

func (o *Offline) TransactionPage(ctx context.Context, accountID int64, page, pageSize int) (model.AccountTransactionsList, error) {
	var resp model.AccountTransactionsList
	_, err := o.store.Get(ctx, KindPage, pageKey(accountID, page, pageSize), &resp)
	return resp, err
}

func (o *Offline) Tabulation(ctx context.Context, reportID int64) (*model.Tabulation, error) {
	var tab model.Tabulation
	if _, err := o.store.Get(ctx, KindTabulation, strconv.FormatInt(reportID, 10), &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

func (o *Offline) CreateAccount(context.Context, model.Account) (model.Account, error) {
	return model.Account{}, model.RequestFailed(ErrOffline)
}

func (o *Offline) UpdateAccount(context.Context, model.Account) (model.Account, error) {
	return model.Account{}, model.RequestFailed(ErrOffline)
}

func (o *Offline) DeleteAccount(context.Context, int64) error {
	return model.RequestFailed(ErrOffline)
}

func (o *Offline) CreateTransaction(context.Context, model.Transaction) (model.Transaction, error) {
	return model.Transaction{}, model.RequestFailed(ErrOffline)
}

func (o *Offline) UpdateTransaction(context.Context, model.Transaction) (model.Transaction, error) {
	return model.Transaction{}, model.RequestFailed(ErrOffline)
}

func (o *Offline) DeleteTransaction(context.Context, int64) error {
	return model.RequestFailed(ErrOffline)
}

func (o *Offline) ImportOFXFile(context.Context, int64, string, io.Reader) error {
	return model.RequestFailed(ErrOffline)
}

func (o *Offline) ImportOFXDownload(context.Context, int64, string, time.Time, time.Time) error {
	return model.RequestFailed(ErrOffline)
}

var (
	_ app.Backend = (*Recorder)(nil)
	_ app.Backend = (*Offline)(nil)
)

package commands_test

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/model"
)

// fakeServer is an in-memory stand-in for the bookkeeping server's v1 API.
type fakeServer struct {
	mu          sync.Mutex
	accounts    map[int64]model.Account
	nextAccount int64
	txns        []model.Transaction
	nextTxn     int64
	deleted     []int64
	uploads     []string
	logins      []map[string]string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{accounts: map[int64]model.Account{}, nextAccount: 100, nextTxn: 3}
	for _, a := range accounts.DefaultChart() {
		fs.accounts[a.AccountId] = a
	}
	fs.txns = []model.Transaction{
		seedTxn(1, "Paycheck", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 2, 8, "100"),
		seedTxn(2, "Coffee", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 2, 12, "-3.50"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions/{$}", fs.login)
	mux.HandleFunc("GET /v1/accounts/{$}", fs.listAccounts)
	mux.HandleFunc("POST /v1/accounts/{$}", fs.createAccount)
	mux.HandleFunc("PUT /v1/accounts/{id}/{$}", fs.updateAccount)
	mux.HandleFunc("DELETE /v1/accounts/{id}/{$}", fs.deleteAccount)
	mux.HandleFunc("GET /v1/accounts/{id}/transactions/{$}", fs.transactionPage)
	mux.HandleFunc("POST /v1/accounts/{id}/imports/ofxfile", fs.upload)
	mux.HandleFunc("GET /v1/securities/{$}", fs.securities)
	mux.HandleFunc("POST /v1/transactions/{$}", fs.createTransaction)
	mux.HandleFunc("DELETE /v1/transactions/{id}/{$}", fs.deleteTransaction)
	mux.HandleFunc("GET /v1/reports/{id}/tabulations", fs.tabulation)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func seedTxn(id int64, desc string, date time.Time, acct, counter int64, amount string) model.Transaction {
	t := model.NewTransaction()
	t.TransactionId, t.Description, t.Date = id, desc, date
	amt := decimal.RequireFromString(amount)
	s1, s2 := model.NewSplit(), model.NewSplit()
	s1.TransactionId, s1.AccountId, s1.Amount, s1.Status = id, acct, amt, model.SplitStatusCleared
	s2.TransactionId, s2.AccountId, s2.Amount, s2.Status = id, counter, amt.Neg(), model.SplitStatusCleared
	t.Splits = []model.Split{s1, s2}
	return t
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, id int) {
	w.WriteHeader(http.StatusBadRequest)
	writeJSON(w, model.NewError(id))
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (fs *fakeServer) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	fs.mu.Lock()
	fs.logins = append(fs.logins, body)
	fs.mu.Unlock()
	if body["Password"] == "" {
		writeError(w, model.ErrUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "moneygo-session", Value: "s1", Path: "/"})
	writeJSON(w, map[string]int64{"SessionId": 1, "UserId": 1})
}

func (fs *fakeServer) listAccounts(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	list := model.AccountList{}
	for _, id := range slices.Sorted(maps.Keys(fs.accounts)) {
		list.Accounts = append(list.Accounts, fs.accounts[id])
	}
	writeJSON(w, list)
}

func (fs *fakeServer) createAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	a.AccountId = fs.nextAccount
	fs.nextAccount++
	fs.accounts[a.AccountId] = a
	writeJSON(w, a)
}

func (fs *fakeServer) updateAccount(w http.ResponseWriter, r *http.Request) {
	var a model.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil || a.AccountId != pathID(r) {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.accounts[a.AccountId] = a
	writeJSON(w, a)
}

func (fs *fakeServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	id := pathID(r)
	if _, ok := fs.accounts[id]; !ok {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	delete(fs.accounts, id)
	writeJSON(w, struct{}{})
}

// transactionPage serves newest-first pages. EndingBalance is the account
// balance as of the newest transaction on the page.
func (fs *fakeServer) transactionPage(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if limit <= 0 {
		limit = 20
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	acct, ok := fs.accounts[id]
	if !ok {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	var mine []model.Transaction
	for _, t := range fs.txns {
		if len(t.SplitsFor(id)) > 0 {
			mine = append(mine, t)
		}
	}
	slices.SortFunc(mine, func(a, b model.Transaction) int { return b.Date.Compare(a.Date) })

	start := min(page*limit, len(mine))
	end := min(start+limit, len(mine))
	ending := decimal.Zero
	for _, t := range mine[start:] {
		for _, s := range t.SplitsFor(id) {
			ending = ending.Add(s.Amount)
		}
	}
	writeJSON(w, model.AccountTransactionsList{
		Account:           &acct,
		Transactions:      mine[start:end],
		TotalTransactions: int64(len(mine)),
		EndingBalance:     ending,
	})
}

func (fs *fakeServer) upload(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("importfile")
	if err != nil {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	defer f.Close()
	body, _ := io.ReadAll(f)
	if len(body) == 0 {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	fs.mu.Lock()
	fs.uploads = append(fs.uploads, hdr.Filename)
	fs.mu.Unlock()
	writeJSON(w, struct{}{})
}

func (fs *fakeServer) securities(w http.ResponseWriter, r *http.Request) {
	usd := model.NewSecurity()
	usd.SecurityId, usd.Name, usd.Symbol, usd.Precision, usd.Type = 1, "US Dollar", "$", 2, model.SecurityTypeCurrency
	writeJSON(w, model.SecurityList{Securities: []model.Security{usd}})
}

func (fs *fakeServer) createTransaction(w http.ResponseWriter, r *http.Request) {
	var t model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	t.TransactionId = fs.nextTxn
	fs.nextTxn++
	for i := range t.Splits {
		t.Splits[i].TransactionId = t.TransactionId
	}
	fs.txns = append(fs.txns, t)
	writeJSON(w, t)
}

func (fs *fakeServer) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	id := pathID(r)
	n := len(fs.txns)
	fs.txns = slices.DeleteFunc(fs.txns, func(t model.Transaction) bool { return t.TransactionId == id })
	if len(fs.txns) == n {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	fs.deleted = append(fs.deleted, id)
	writeJSON(w, struct{}{})
}

func (fs *fakeServer) tabulation(w http.ResponseWriter, r *http.Request) {
	if pathID(r) != 4 {
		writeError(w, model.ErrInvalidRequest)
		return
	}
	leaf := func(v ...float64) *model.Series {
		return &model.Series{Values: v, Series: map[string]*model.Series{}}
	}
	food := leaf(10, 20)
	food.Series["Groceries"] = leaf(5, 5)
	expenses := leaf()
	expenses.Series["Food"] = food
	expenses.Series["Rent"] = leaf(100, 100)

	writeJSON(w, model.Tabulation{
		ReportId: 4,
		Title:    "Spending",
		Subtitle: "2024",
		Units:    "USD",
		Labels:   []string{"Jan", "Feb"},
		Series:   map[string]*model.Series{"Expenses": expenses, "Income": leaf(500, 500)},
	})
}

func (fs *fakeServer) transactions() []model.Transaction {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return slices.Clone(fs.txns)
}

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// Session is the server's record of a signed-in user.
type Session struct {
	SessionId int64
	UserId    int64
}

// Login starts a session. The cookie is kept for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	req, err := jsonRequest(http.MethodPost, "v1/sessions/", map[string]string{
		"Username": username,
		"Password": password,
	})
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := c.do(ctx, req, &s); err != nil {
		return Session{}, fmt.Errorf("logging in: %w", err)
	}
	return s, nil
}

// ResumeSession returns the current session. With no session the error
// satisfies model.IsNotSignedIn.
func (c *Client) ResumeSession(ctx context.Context) (Session, error) {
	var s Session
	if err := c.do(ctx, request{method: http.MethodGet, path: "v1/sessions/"}, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "v1/sessions/"}, nil)
}

// Accounts lists every account of the signed-in user.
func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	var list model.AccountList
	if err := c.do(ctx, request{method: http.MethodGet, path: "v1/accounts/"}, &list); err != nil {
		return nil, err
	}
	return list.Accounts, nil
}

// CreateAccount adds an account and returns it with its new ID.
func (c *Client) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	return c.sendAccount(ctx, http.MethodPost, "v1/accounts/", a)
}

// UpdateAccount saves an existing account.
func (c *Client) UpdateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	return c.sendAccount(ctx, http.MethodPut, accountPath(a.AccountId), a)
}

func (c *Client) sendAccount(ctx context.Context, method, path string, a model.Account) (model.Account, error) {
	req, err := jsonRequest(method, path, a)
	if err != nil {
		return model.Account{}, err
	}
	var out model.Account
	if err := c.do(ctx, req, &out); err != nil {
		return model.Account{}, err
	}
	return out, nil
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: accountPath(id)}, nil)
}

// Securities lists the user's securities.
func (c *Client) Securities(ctx context.Context) ([]model.Security, error) {
	var list model.SecurityList
	if err := c.do(ctx, request{method: http.MethodGet, path: "v1/securities/"}, &list); err != nil {
		return nil, err
	}
	return list.Securities, nil
}

// TransactionPage fetches one page of an account's register, newest first.
func (c *Client) TransactionPage(ctx context.Context, accountID int64, page, pageSize int) (model.AccountTransactionsList, error) {
	q := url.Values{}
	q.Set("sort", "date-desc")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))

	var out model.AccountTransactionsList
	err := c.do(ctx, request{method: http.MethodGet, path: accountPath(accountID) + "transactions/", query: q}, &out)
	if err != nil {
		return model.AccountTransactionsList{}, err
	}
	return out, nil
}

// CreateTransaction adds a transaction.
func (c *Client) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return c.sendTransaction(ctx, http.MethodPost, "v1/transactions/", t)
}

// UpdateTransaction saves an edited transaction.
func (c *Client) UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return c.sendTransaction(ctx, http.MethodPut, transactionPath(t.TransactionId), t)
}

func (c *Client) sendTransaction(ctx context.Context, method, path string, t model.Transaction) (model.Transaction, error) {
	req, err := jsonRequest(method, path, t)
	if err != nil {
		return model.Transaction{}, err
	}
	var out model.Transaction
	if err := c.do(ctx, req, &out); err != nil {
		return model.Transaction{}, err
	}
	return out, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: transactionPath(id)}, nil)
}

// Tabulation computes a report on the server.
func (c *Client) Tabulation(ctx context.Context, reportID int64) (*model.Tabulation, error) {
	var out model.Tabulation
	path := "v1/reports/" + strconv.FormatInt(reportID, 10) + "/tabulations"
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportOFXFile uploads an OFX statement for the server to import into an
// account.
func (c *Client) ImportOFXFile(ctx context.Context, accountID int64, name string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("importfile", name)
	if err != nil {
		return model.ClientError("building upload: %v", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return model.ClientError("reading %s: %v", name, err)
	}
	if err := mw.Close(); err != nil {
		return model.ClientError("building upload: %v", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        accountPath(accountID) + "imports/ofxfile",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, nil)
}

type ofxDownload struct {
	OFXPassword string
	StartDate   time.Time
	EndDate     time.Time
}

// ImportOFXDownload has the server download and import a statement using the
// account's OFX profile.
func (c *Client) ImportOFXDownload(ctx context.Context, accountID int64, password string, start, end time.Time) error {
	req, err := jsonRequest(http.MethodPost, accountPath(accountID)+"imports/ofx", ofxDownload{
		OFXPassword: password,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func accountPath(id int64) string {
	return "v1/accounts/" + strconv.FormatInt(id, 10) + "/"
}

func transactionPath(id int64) string {
	return "v1/transactions/" + strconv.FormatInt(id, 10) + "/"
}

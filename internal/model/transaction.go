package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitStatus is the reconciliation state of a split.
type SplitStatus int

const (
	SplitStatusImported SplitStatus = iota + 1
	SplitStatusEntered
	SplitStatusCleared
	SplitStatusReconciled
	SplitStatusVoided
)

func (s SplitStatus) String() string {
	switch s {
	case SplitStatusImported:
		return "Imported"
	case SplitStatusEntered:
		return "Entered"
	case SplitStatusCleared:
		return "Cleared"
	case SplitStatusReconciled:
		return "Reconciled"
	case SplitStatusVoided:
		return "Voided"
	}
	return ""
}

// Split is one posting of a transaction against an account. When AccountId
// is -1 the split is unassigned and SecurityId names its currency instead.
type Split struct {
	SplitId       int64
	TransactionId int64
	Status        SplitStatus
	AccountId     int64
	SecurityId    int64
	RemoteId      string
	Number        string
	Memo          string
	Amount        decimal.Decimal
	Debit         bool
}

// NewSplit returns a Split with every identifier unset and a zero amount.
func NewSplit() Split {
	return Split{
		SplitId:       -1,
		TransactionId: -1,
		AccountId:     -1,
		SecurityId:    -1,
		Amount:        decimal.Zero,
	}
}

// IsSplit reports whether s carries any identity.
func (s Split) IsSplit() bool {
	return s.SplitId != -1 || s.TransactionId != -1 || s.AccountId != -1 || s.SecurityId != -1
}

// Valid reports whether exactly one of AccountId and SecurityId is set.
func (s Split) Valid() bool {
	return (s.AccountId == -1) != (s.SecurityId == -1)
}

// Unassigned reports whether the split has not been posted to an account.
func (s Split) Unassigned() bool {
	return s.AccountId == -1
}

type splitJSON struct {
	SplitId       int64
	TransactionId int64
	Status        SplitStatus
	AccountId     int64
	SecurityId    int64
	RemoteId      string
	Number        string
	Memo          string
	Amount        string
	Debit         bool
}

// MarshalJSON encodes Amount as a decimal string.
func (s Split) MarshalJSON() ([]byte, error) {
	return json.Marshal(splitJSON{
		SplitId:       s.SplitId,
		TransactionId: s.TransactionId,
		Status:        s.Status,
		AccountId:     s.AccountId,
		SecurityId:    s.SecurityId,
		RemoteId:      s.RemoteId,
		Number:        s.Number,
		Memo:          s.Memo,
		Amount:        s.Amount.String(),
		Debit:         s.Debit,
	})
}

// UnmarshalJSON decodes a split, keeping defaults for absent keys. A present
// but unparseable Amount is an error.
func (s *Split) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding split: %w", err)
	}
	sp := NewSplit()
	err = f.getAll(map[string]any{
		"SplitId":       &sp.SplitId,
		"TransactionId": &sp.TransactionId,
		"Status":        &sp.Status,
		"AccountId":     &sp.AccountId,
		"SecurityId":    &sp.SecurityId,
		"RemoteId":      &sp.RemoteId,
		"Number":        &sp.Number,
		"Memo":          &sp.Memo,
		"Debit":         &sp.Debit,
	})
	if err != nil {
		return fmt.Errorf("decoding split: %w", err)
	}
	if err := f.getDecimal("Amount", &sp.Amount); err != nil {
		return fmt.Errorf("decoding split: %w", err)
	}
	*s = sp
	return nil
}

// Transaction is a dated set of splits. It is treated as a value: edits are
// made on copies obtained from DeepCopy.
type Transaction struct {
	TransactionId int64
	UserId        int64
	Description   string
	Date          time.Time
	Splits        []Split
}

// NewTransaction returns a Transaction with identifiers unset, dated at the epoch.
func NewTransaction() Transaction {
	return Transaction{
		TransactionId: -1,
		UserId:        -1,
		Date:          Epoch,
	}
}

// IsTransaction reports whether t carries an identity.
func (t Transaction) IsTransaction() bool {
	return t.TransactionId != -1 || t.UserId != -1
}

// DeepCopy returns a copy of t that shares no memory with it.
func (t Transaction) DeepCopy() Transaction {
	c := t
	if t.Splits != nil {
		c.Splits = make([]Split, len(t.Splits))
		copy(c.Splits, t.Splits)
	}
	return c
}

// SplitsFor returns the splits posting to accountID, in order.
func (t Transaction) SplitsFor(accountID int64) []Split {
	var out []Split
	for _, s := range t.Splits {
		if s.AccountId == accountID {
			out = append(out, s)
		}
	}
	return out
}

type transactionJSON struct {
	TransactionId int64
	UserId        int64
	Description   string
	Date          string
	Splits        []Split
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	splits := t.Splits
	if splits == nil {
		splits = []Split{}
	}
	return json.Marshal(transactionJSON{
		TransactionId: t.TransactionId,
		UserId:        t.UserId,
		Description:   t.Description,
		Date:          t.Date.UTC().Format(time.RFC3339),
		Splits:        splits,
	})
}

// UnmarshalJSON decodes a transaction. A missing or malformed Date becomes
// Epoch rather than an error.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding transaction: %w", err)
	}
	txn := NewTransaction()
	err = f.getAll(map[string]any{
		"TransactionId": &txn.TransactionId,
		"UserId":        &txn.UserId,
		"Description":   &txn.Description,
		"Splits":        &txn.Splits,
	})
	if err != nil {
		return fmt.Errorf("decoding transaction: %w", err)
	}
	txn.Date = f.getDate("Date")
	*t = txn
	return nil
}

// AccountTransactionsList is one page of an account's register as returned
// by the server, newest first.
type AccountTransactionsList struct {
	Account           *Account
	Transactions      []Transaction
	TotalTransactions int64
	BeginningBalance  *decimal.Decimal
	EndingBalance     decimal.Decimal
}

func (l *AccountTransactionsList) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding transaction page: %w", err)
	}
	out := AccountTransactionsList{EndingBalance: decimal.Zero}
	err = f.getAll(map[string]any{
		"Account":           &out.Account,
		"Transactions":      &out.Transactions,
		"TotalTransactions": &out.TotalTransactions,
	})
	if err != nil {
		return fmt.Errorf("decoding transaction page: %w", err)
	}
	if err := f.getDecimal("EndingBalance", &out.EndingBalance); err != nil {
		return fmt.Errorf("decoding transaction page: %w", err)
	}
	if f.has("BeginningBalance") {
		var b decimal.Decimal
		if err := f.getDecimal("BeginningBalance", &b); err != nil {
			return fmt.Errorf("decoding transaction page: %w", err)
		}
		out.BeginningBalance = &b
	}
	*l = out
	return nil
}

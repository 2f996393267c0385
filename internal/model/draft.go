package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NewDraft starts a transaction for entry from an account register: two
// Entered splits, the first posted to accountID.
func NewDraft(accountID int64, date time.Time) Transaction {
	t := NewTransaction()
	t.Date = date
	first := NewSplit()
	first.Status = SplitStatusEntered
	first.AccountId = accountID
	second := NewSplit()
	second.Status = SplitStatusEntered
	t.Splits = []Split{first, second}
	return t
}

// AddSplit returns a copy of t with an empty Entered split appended.
func (t Transaction) AddSplit() Transaction {
	c := t.DeepCopy()
	s := NewSplit()
	s.Status = SplitStatusEntered
	s.TransactionId = t.TransactionId
	c.Splits = append(c.Splits, s)
	return c
}

// RemoveSplit returns a copy of t without split i.
func (t Transaction) RemoveSplit(i int) (Transaction, error) {
	if i < 0 || i >= len(t.Splits) {
		return t, fmt.Errorf("split index %d out of range [0,%d)", i, len(t.Splits))
	}
	c := t.DeepCopy()
	c.Splits = append(c.Splits[:i], c.Splits[i+1:]...)
	return c, nil
}

// AssignAccount returns a copy of t with split i posted to accountID. The
// split's SecurityId is cleared since the account now determines it.
func (t Transaction) AssignAccount(i int, accountID int64) (Transaction, error) {
	if i < 0 || i >= len(t.Splits) {
		return t, fmt.Errorf("split index %d out of range [0,%d)", i, len(t.Splits))
	}
	c := t.DeepCopy()
	c.Splits[i].AccountId = accountID
	c.Splits[i].SecurityId = -1
	return c, nil
}

// SetAmount returns a copy of t with split i's amount replaced.
func (t Transaction) SetAmount(i int, amount decimal.Decimal) (Transaction, error) {
	if i < 0 || i >= len(t.Splits) {
		return t, fmt.Errorf("split index %d out of range [0,%d)", i, len(t.Splits))
	}
	c := t.DeepCopy()
	c.Splits[i].Amount = amount
	return c, nil
}

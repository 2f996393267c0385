package register

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for an exported register page.
const Header = "date,number,description,account,status,amount,balance"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	colDate    = 0
	colNumber  = 1
	colDesc    = 2
	colAccount = 3
	colStatus  = 4
	colAmount  = 5
	colBalance = 6
)

// Formatter renders one register row as text, resolving names and amounts.
type Formatter struct {
	AccountID  int64
	Accounts   map[int64]model.Account
	Securities SecurityLookup
	Security   model.Security // currency of the register's account
}

// MarshalRow converts a Row to a CSV record.
func (f Formatter) MarshalRow(r Row) []string {
	row := make([]string, numFields)
	row[colDate] = r.Transaction.Date.Format(dateFormat)
	row[colDesc] = r.Transaction.Description
	row[colAccount] = Counterpart(r.Transaction, f.AccountID, f.Accounts, f.Securities)
	if s, ok := FirstSplit(r.Transaction, f.AccountID); ok {
		row[colNumber] = s.Number
		row[colStatus] = s.Status.String()
	}
	row[colAmount] = Amount(r.Transaction, f.AccountID).StringFixed(f.Security.Precision)
	row[colBalance] = r.Balance.StringFixed(f.Security.Precision)
	return row
}

// WriteCSV writes rows, newest first, with a header.
func (f Formatter) WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		if err := cw.Write(f.MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

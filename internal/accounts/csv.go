package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	numFields   = 5
	colID       = 0
	colParent   = 1
	colSecurity = 2
	colType     = 3
	colName     = 4
)

var header = []string{"account_id", "parent_id", "security_id", "type", "name"}

// ReadAccounts reads a chart CSV. Every record must carry all columns.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row. Root accounts leave
// parent_id empty.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(acct.AccountId, 10)
	if !acct.IsRootAccount() {
		row[colParent] = strconv.FormatInt(acct.ParentAccountId, 10)
	}
	row[colSecurity] = strconv.FormatInt(acct.SecurityId, 10)
	row[colType] = acct.Type.String()
	row[colName] = acct.Name
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	acct := model.NewAccount()
	var err error
	acct.AccountId, err = strconv.ParseInt(record[colID], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	if record[colParent] != "" {
		acct.ParentAccountId, err = strconv.ParseInt(record[colParent], 10, 64)
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing parent_id %q: %w", record[colParent], err)
		}
	}

	acct.SecurityId, err = strconv.ParseInt(record[colSecurity], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing security_id %q: %w", record[colSecurity], err)
	}

	acct.Type, err = model.ParseAccountType(record[colType])
	if err != nil {
		return model.Account{}, err
	}
	acct.Name = record[colName]
	return acct, nil
}

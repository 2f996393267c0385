package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for transaction files. Each row is one split;
// consecutive rows sharing a transaction_id form one transaction.
const Header = "transaction_id,date,description,split_id,account_id,security_id,status,number,memo,amount"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colTxnID   = 0
	colDate    = 1
	colDesc    = 2
	colSplitID = 3
	colAcctID  = 4
	colSecID   = 5
	colStatus  = 6
	colNumber  = 7
	colMemo    = 8
	colAmount  = 9
)

// ReadTransactions reads a transaction CSV.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transaction CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		key := rec[colTxnID]
		if i == 0 || records[i][colTxnID] != key {
			t, err := unmarshalTransaction(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			txns = append(txns, t)
		}
		s, err := UnmarshalSplit(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		last := &txns[len(txns)-1]
		s.TransactionId = last.TransactionId
		last.Splits = append(last.Splits, s)
	}
	return txns, nil
}

// WriteTransactions writes txns, one row per split, including the header.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, t := range txns {
		for _, s := range t.Splits {
			if err := cw.Write(MarshalSplit(t, s)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSplit converts one split of t to a CSV row.
func MarshalSplit(t model.Transaction, s model.Split) []string {
	row := make([]string, numFields)
	row[colTxnID] = strconv.FormatInt(t.TransactionId, 10)
	row[colDate] = t.Date.Format(dateFormat)
	row[colDesc] = t.Description
	row[colSplitID] = optionalID(s.SplitId)
	row[colAcctID] = optionalID(s.AccountId)
	row[colSecID] = optionalID(s.SecurityId)
	if s.Status != 0 {
		row[colStatus] = s.Status.String()
	}
	row[colNumber] = s.Number
	row[colMemo] = s.Memo
	row[colAmount] = s.Amount.String()
	return row
}

// UnmarshalSplit reads the split columns of a CSV row.
func UnmarshalSplit(record []string) (model.Split, error) {
	if len(record) != numFields {
		return model.Split{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	s := model.NewSplit()
	var err error
	if s.SplitId, err = parseOptionalID(record[colSplitID]); err != nil {
		return model.Split{}, fmt.Errorf("parsing split_id %q: %w", record[colSplitID], err)
	}
	if s.AccountId, err = parseOptionalID(record[colAcctID]); err != nil {
		return model.Split{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}
	if s.SecurityId, err = parseOptionalID(record[colSecID]); err != nil {
		return model.Split{}, fmt.Errorf("parsing security_id %q: %w", record[colSecID], err)
	}
	if s.Status, err = parseStatus(record[colStatus]); err != nil {
		return model.Split{}, err
	}
	s.Number = record[colNumber]
	s.Memo = record[colMemo]

	if record[colAmount] != "" {
		s.Amount, err = decimal.NewFromString(record[colAmount])
		if err != nil {
			return model.Split{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
		}
	}
	return s, nil
}

func unmarshalTransaction(record []string) (model.Transaction, error) {
	t := model.NewTransaction()

	id, err := parseOptionalID(record[colTxnID])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transaction_id %q: %w", record[colTxnID], err)
	}
	t.TransactionId = id

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	t.Date = date
	t.Description = record[colDesc]
	return t, nil
}

func optionalID(id int64) string {
	if id == -1 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func parseOptionalID(s string) (int64, error) {
	if s == "" {
		return -1, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseStatus(s string) (model.SplitStatus, error) {
	if s == "" {
		return model.SplitStatusEntered, nil
	}
	for st := model.SplitStatusImported; st <= model.SplitStatusVoided; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown split status %q", s)
}

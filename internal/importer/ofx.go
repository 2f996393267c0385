package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// ErrNoStatement is returned for OFX files with neither a bank nor a credit
// card statement.
var ErrNoStatement = errors.New("no bank or credit card statement in OFX file")

// amountPlaces is the number of fractional digits kept from OFX amounts.
const amountPlaces = 8

// OFXParser reads bank and credit card statements from OFX/QFX files.
type OFXParser struct{}

func (p *OFXParser) Format() string { return "ofx" }

// Parse returns the transactions of every statement in the file, in file order.
func (p *OFXParser) Parse(r io.Reader) ([]Entry, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing OFX: %w", err)
	}

	var lists []*ofxgo.TransactionList
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}
	if len(lists) == 0 {
		return nil, ErrNoStatement
	}

	var entries []Entry
	for _, l := range lists {
		for i, txn := range l.Transactions {
			e, err := ofxEntry(txn)
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", i, err)
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func ofxEntry(txn ofxgo.Transaction) (Entry, error) {
	desc := txn.Name.String()
	if desc == "" && txn.Payee != nil {
		desc = txn.Payee.Name.String()
	}
	if memo := txn.Memo.String(); memo != "" {
		if desc != "" {
			desc += " - " + memo
		} else {
			desc = memo
		}
	}

	amount, err := decimal.NewFromString(txn.TrnAmt.Rat.FloatString(amountPlaces))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %s: %w", txn.TrnAmt.String(), err)
	}

	number := txn.CheckNum.String()
	if number == "" {
		number = txn.RefNum.String()
	}

	return Entry{
		Date:        txn.DtPosted.UTC(),
		Description: strings.TrimSpace(desc),
		Number:      number,
		Memo:        txn.ExtdName.String(),
		RemoteID:    "ofx:" + txn.FiTID.String(),
		Amount:      amount,
	}, nil
}

package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aclindsa/ofxgo"
)

// AccountType classifies accounts. The zero value means unset.
type AccountType int

const (
	AccountTypeBank AccountType = iota + 1
	AccountTypeCash
	AccountTypeAsset
	AccountTypeLiability
	AccountTypeInvestment
	AccountTypeIncome
	AccountTypeExpense
	AccountTypeTrading
	AccountTypeEquity
	AccountTypeReceivable
	AccountTypePayable
)

var accountTypeNames = []string{
	"",
	"Bank",
	"Cash",
	"Asset",
	"Liability",
	"Investment",
	"Income",
	"Expense",
	"Trading",
	"Equity",
	"Receivable",
	"Payable",
}

// AccountTypes lists every valid account type in display order.
var AccountTypes = []AccountType{
	AccountTypeBank, AccountTypeCash, AccountTypeAsset, AccountTypeLiability,
	AccountTypeInvestment, AccountTypeIncome, AccountTypeExpense, AccountTypeTrading,
	AccountTypeEquity, AccountTypeReceivable, AccountTypePayable,
}

func (t AccountType) String() string {
	if t < 0 || int(t) >= len(accountTypeNames) {
		return ""
	}
	return accountTypeNames[t]
}

// Valid reports whether t is one of the defined account types.
func (t AccountType) Valid() bool {
	return t >= AccountTypeBank && t <= AccountTypePayable
}

// ParseAccountType converts a type name (case-insensitive) to an AccountType.
func ParseAccountType(name string) (AccountType, error) {
	for _, t := range AccountTypes {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown account type %q", name)
}

// Account is a node in the user's account tree.
type Account struct {
	AccountId         int64
	ExternalAccountId string
	UserId            int64
	SecurityId        int64
	ParentAccountId   int64 // -1 = root
	Type              AccountType
	Name              string
	Version           int64

	// OFX sync profile, carried opaquely.
	OFXURL       string
	OFXORG       string
	OFXFID       string
	OFXUser      string
	OFXBankID    string
	OFXAcctID    string
	OFXAcctType  string
	OFXClientUID string
	OFXAppID     string
	OFXAppVer    string
	OFXVersion   string
	OFXNoIndent  bool
}

// NewAccount returns an Account with every identifier unset.
func NewAccount() Account {
	return Account{
		AccountId:       -1,
		UserId:          -1,
		SecurityId:      -1,
		ParentAccountId: -1,
	}
}

// IsAccount reports whether a has been assigned an identity.
func (a Account) IsAccount() bool {
	return a.AccountId != -1 || a.UserId != -1
}

// IsRootAccount reports whether a sits at the top of the tree.
func (a Account) IsRootAccount() bool {
	return a.ParentAccountId == -1
}

// CheckOFXAcctType validates OFXAcctType against the OFX account type
// enumeration. An empty value is accepted.
func (a Account) CheckOFXAcctType() error {
	if a.OFXAcctType == "" {
		return nil
	}
	if _, err := ofxgo.NewAcctType(a.OFXAcctType); err != nil {
		return fmt.Errorf("account %q: %w", a.Name, err)
	}
	return nil
}

// UnmarshalJSON decodes an account, keeping defaults for absent keys.
func (a *Account) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding account: %w", err)
	}
	acct := NewAccount()
	err = f.getAll(map[string]any{
		"AccountId":         &acct.AccountId,
		"ExternalAccountId": &acct.ExternalAccountId,
		"UserId":            &acct.UserId,
		"SecurityId":        &acct.SecurityId,
		"ParentAccountId":   &acct.ParentAccountId,
		"Type":              &acct.Type,
		"Name":              &acct.Name,
		"Version":           &acct.Version,
		"OFXURL":            &acct.OFXURL,
		"OFXORG":            &acct.OFXORG,
		"OFXFID":            &acct.OFXFID,
		"OFXUser":           &acct.OFXUser,
		"OFXBankID":         &acct.OFXBankID,
		"OFXAcctID":         &acct.OFXAcctID,
		"OFXAcctType":       &acct.OFXAcctType,
		"OFXClientUID":      &acct.OFXClientUID,
		"OFXAppID":          &acct.OFXAppID,
		"OFXAppVer":         &acct.OFXAppVer,
		"OFXVersion":        &acct.OFXVersion,
		"OFXNoIndent":       &acct.OFXNoIndent,
	})
	if err != nil {
		return fmt.Errorf("decoding account: %w", err)
	}
	*a = acct
	return nil
}

// AccountList is the envelope returned when listing accounts.
type AccountList struct {
	Accounts []Account `json:"accounts"`
}

var _ json.Unmarshaler = (*Account)(nil)

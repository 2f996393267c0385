package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SecurityType distinguishes currencies from tradable instruments.
type SecurityType int

const (
	SecurityTypeCurrency SecurityType = iota + 1
	SecurityTypeStock
)

// Security is a currency or instrument that account balances are held in.
type Security struct {
	SecurityId  int64
	Name        string
	Description string
	Symbol      string
	Precision   int32
	Type        SecurityType
	AlternateId string
}

// NewSecurity returns a Security with its identifier unset.
func NewSecurity() Security {
	return Security{SecurityId: -1}
}

// Format renders amount with the security's symbol, rounded to its precision.
func (s Security) Format(amount decimal.Decimal) string {
	if s.Symbol == "" {
		return amount.StringFixed(s.Precision)
	}
	return s.Symbol + " " + amount.StringFixed(s.Precision)
}

// UnmarshalJSON decodes a security, keeping defaults for absent keys.
func (s *Security) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding security: %w", err)
	}
	sec := NewSecurity()
	err = f.getAll(map[string]any{
		"SecurityId":  &sec.SecurityId,
		"Name":        &sec.Name,
		"Description": &sec.Description,
		"Symbol":      &sec.Symbol,
		"Precision":   &sec.Precision,
		"Type":        &sec.Type,
		"AlternateId": &sec.AlternateId,
	})
	if err != nil {
		return fmt.Errorf("decoding security: %w", err)
	}
	*s = sec
	return nil
}

// SecurityList is the envelope returned when listing securities.
type SecurityList struct {
	Securities []Security `json:"securities"`
}

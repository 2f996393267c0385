package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// fields holds the raw members of a JSON object so entity decoders can copy
// only the keys that are present and keep constructor defaults otherwise.
type fields map[string]json.RawMessage

func decodeFields(data []byte) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && string(raw) != "null"
}

func (f fields) get(key string, dst any) error {
	if !f.has(key) {
		return nil
	}
	if err := json.Unmarshal(f[key], dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// getAll decodes a set of keys, stopping at the first failure.
func (f fields) getAll(dsts map[string]any) error {
	for key, dst := range dsts {
		if err := f.get(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// getDecimal accepts either a decimal string or a bare JSON number.
func (f fields) getDecimal(key string, dst *decimal.Decimal) error {
	if !f.has(key) {
		return nil
	}
	raw := f[key]
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	*dst = d
	return nil
}

// getDate never fails: anything that is not an RFC 3339 string becomes the epoch.
func (f fields) getDate(key string) time.Time {
	var s string
	if !f.has(key) || json.Unmarshal(f[key], &s) != nil {
		return Epoch
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Epoch
	}
	return t
}

// Epoch is the date given to transactions whose date is missing or malformed.
var Epoch = time.Unix(0, 0).UTC()

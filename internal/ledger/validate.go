package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Rules checked before a transaction may be submitted.
const (
	RuleTooFewSplits   = "splits"
	RuleInvalidAccount = "account"
	RuleImbalanced     = "balance"
)

// ValidationError describes a single reason a transaction cannot be submitted.
type ValidationError struct {
	Rule        string
	SplitIndex  int   // -1 when the error is not about one split
	SecurityId  int64 // -1 unless Rule is RuleImbalanced
	Description string
}

func (e ValidationError) Error() string {
	if e.SplitIndex >= 0 {
		return fmt.Sprintf("split %d: %s", e.SplitIndex, e.Description)
	}
	return e.Description
}

// AccountLookup resolves account IDs to accounts.
type AccountLookup interface {
	Get(id int64) (model.Account, bool)
}

// Accounts adapts a plain map to AccountLookup.
type Accounts map[int64]model.Account

func (m Accounts) Get(id int64) (model.Account, bool) {
	a, ok := m[id]
	return a, ok
}

// splitSecurity reports which security a split is denominated in.
func splitSecurity(s model.Split, accounts AccountLookup) (int64, bool) {
	if s.AccountId != -1 {
		if a, ok := accounts.Get(s.AccountId); ok {
			return a.SecurityId, true
		}
	}
	if s.SecurityId != -1 {
		return s.SecurityId, true
	}
	return 0, false
}

func securityTotals(t model.Transaction, accounts AccountLookup) map[int64]decimal.Decimal {
	totals := make(map[int64]decimal.Decimal)
	for _, s := range t.Splits {
		sec, ok := splitSecurity(s, accounts)
		if !ok {
			continue
		}
		totals[sec] = totals[sec].Add(s.Amount)
	}
	return totals
}

// ImbalancedSplitSecurities returns, in ascending order, every security whose
// split amounts do not sum to zero. Splits posted to an unknown account fall
// back to their own SecurityId and are skipped if that is unset too.
func ImbalancedSplitSecurities(t model.Transaction, accounts AccountLookup) []int64 {
	var out []int64
	for sec, total := range securityTotals(t, accounts) {
		if !total.IsZero() {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Imbalance returns how far off zero a security's splits sum to.
func Imbalance(t model.Transaction, securityID int64, accounts AccountLookup) decimal.Decimal {
	return securityTotals(t, accounts)[securityID]
}

// SplitImbalanced reports whether split i belongs to an imbalanced security.
func SplitImbalanced(t model.Transaction, i int, accounts AccountLookup) bool {
	if i < 0 || i >= len(t.Splits) {
		return false
	}
	sec, ok := splitSecurity(t.Splits[i], accounts)
	if !ok {
		return false
	}
	return !Imbalance(t, sec, accounts).IsZero()
}

// Validate runs every submission check over t.
func Validate(t model.Transaction, accounts AccountLookup) []ValidationError {
	var errs []ValidationError

	if len(t.Splits) < 2 {
		errs = append(errs, ValidationError{
			Rule:        RuleTooFewSplits,
			SplitIndex:  -1,
			SecurityId:  -1,
			Description: "Transaction must have at least two splits",
		})
	}

	for i, s := range t.Splits {
		if _, ok := accounts.Get(s.AccountId); !ok {
			errs = append(errs, ValidationError{
				Rule:        RuleInvalidAccount,
				SplitIndex:  i,
				SecurityId:  -1,
				Description: "All accounts must be valid",
			})
		}
	}

	for _, sec := range ImbalancedSplitSecurities(t, accounts) {
		errs = append(errs, ValidationError{
			Rule:        RuleImbalanced,
			SplitIndex:  -1,
			SecurityId:  sec,
			Description: "Transaction must balance",
		})
	}

	return errs
}

// ErrNotSubmittable is wrapped by CheckSubmittable failures.
var ErrNotSubmittable = errors.New("transaction cannot be submitted")

// CheckSubmittable returns nil when t passes Validate, otherwise an error
// wrapping ErrNotSubmittable and listing each distinct problem once.
func CheckSubmittable(t model.Transaction, accounts AccountLookup) error {
	errs := Validate(t, accounts)
	if len(errs) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var msgs []string
	for _, e := range errs {
		if seen[e.Description] {
			continue
		}
		seen[e.Description] = true
		msgs = append(msgs, e.Description)
	}
	return fmt.Errorf("%w: %s", ErrNotSubmittable, strings.Join(msgs, "; "))
}

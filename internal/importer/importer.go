// Package importer turns bank statement files into ledger transactions.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Entry is one statement line, independent of the file format it came from.
type Entry struct {
	Date        time.Time
	Description string
	Number      string
	Memo        string
	RemoteID    string
	Amount      decimal.Decimal
}

// Parser converts a statement file into entries.
type Parser interface {
	Parse(r io.Reader) ([]Entry, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Detect picks a parser from a file name: .ofx and .qfx are OFX, anything
// else falls back to the chase CSV layout.
func (r *Registry) Detect(name string) Parser {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ofx", ".qfx":
		return r.Get("ofx")
	default:
		return r.Get("chase")
	}
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&OFXParser{})
	return r
}

// Transactions builds one two-split transaction per entry. The first split
// posts the amount to accountID. The second carries the opposite amount to
// counterID, or is left unassigned in securityID when counterID is negative.
func Transactions(entries []Entry, accountID, counterID, securityID int64) []model.Transaction {
	txns := make([]model.Transaction, 0, len(entries))
	for _, e := range entries {
		t := model.NewTransaction()
		t.Description = e.Description
		t.Date = e.Date

		own := model.NewSplit()
		own.Status = model.SplitStatusImported
		own.AccountId = accountID
		own.RemoteId = e.RemoteID
		own.Number = e.Number
		own.Memo = e.Memo
		own.Amount = e.Amount

		other := model.NewSplit()
		other.Status = model.SplitStatusImported
		other.Amount = e.Amount.Neg()
		if counterID >= 0 {
			other.AccountId = counterID
		} else {
			other.SecurityId = securityID
		}

		t.Splits = []model.Split{own, other}
		txns = append(txns, t)
	}
	return txns
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cleared-dev/tally/internal/model"
)

// Service is the account collection plus its derived child index. The index
// is rebuilt from the collection after every change.
type Service struct {
	byID     map[int64]model.Account
	children map[int64][]int64
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{}
	s.Replace(accounts)
	return s
}

// Replace swaps the whole collection, as after a fresh fetch.
func (s *Service) Replace(accounts []model.Account) {
	byID := make(map[int64]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountId] = a
	}
	s.byID = byID
	s.reindex()
}

// Put inserts or replaces one account.
func (s *Service) Put(a model.Account) {
	s.byID[a.AccountId] = a
	s.reindex()
}

// Remove deletes an account. Its children become orphans until the server
// sends their updated parents.
func (s *Service) Remove(id int64) {
	delete(s.byID, id)
	s.reindex()
}

func (s *Service) reindex() {
	s.children = BuildChildren(s.byID)
}

// Map returns the underlying collection. Callers must not modify it.
func (s *Service) Map() map[int64]model.Account {
	return s.byID
}

// All returns every account ordered by ID.
func (s *Service) All() []model.Account {
	out := make([]model.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountId < out[j].AccountId })
	return out
}

// Len returns the number of accounts.
func (s *Service) Len() int {
	return len(s.byID)
}

// Get returns an account by ID.
func (s *Service) Get(id int64) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int64) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type, ordered by ID.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.All() {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Children returns the direct children of id.
func (s *Service) Children(id int64) []int64 {
	return s.children[id]
}

// ChildIndex returns the full child index.
func (s *Service) ChildIndex() map[int64][]int64 {
	return s.children
}

// DisplayName returns the full path name of an account.
func (s *Service) DisplayName(id int64) (string, error) {
	a, ok := s.byID[id]
	if !ok {
		return "", fmt.Errorf("account %d not found", id)
	}
	return DisplayName(a, s.byID)
}

// DisplayList flattens the account tree for pickers and listings.
func (s *Service) DisplayList(includeRoot bool, rootLabel string) ([]DisplayEntry, error) {
	return DisplayList(s.byID, s.children, includeRoot, rootLabel)
}

// Find resolves an account by ID string or by full display name.
func (s *Service) Find(ref string) (model.Account, bool) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if a, ok := s.byID[id]; ok {
			return a, true
		}
	}
	for _, a := range s.byID {
		if name, err := DisplayName(a, s.byID); err == nil && name == ref {
			return a, true
		}
	}
	return model.Account{}, false
}

// LoadFile reads a chart CSV and returns a Service.
func LoadFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// SaveFile writes the collection to a chart CSV, creating parent directories.
func (s *Service) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.All()); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

package accounts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrCycle is returned when following parent links revisits an account.
var ErrCycle = errors.New("account hierarchy contains a cycle")

// Separator joins ancestor names in a display name.
const Separator = "/"

// DisplayEntry is one row of a flattened account tree.
type DisplayEntry struct {
	AccountId int64
	Name      string
	Depth     int
}

// BuildChildren maps every account ID to the IDs of its direct children,
// sorted ascending. Each account gets an entry even when it has no children.
func BuildChildren(accounts map[int64]model.Account) map[int64][]int64 {
	children := make(map[int64][]int64, len(accounts))
	for id := range accounts {
		children[id] = []int64{}
	}
	for id, a := range accounts {
		if a.IsRootAccount() {
			continue
		}
		if _, ok := accounts[a.ParentAccountId]; ok {
			children[a.ParentAccountId] = append(children[a.ParentAccountId], id)
		}
	}
	for _, ids := range children {
		sortIDs(ids)
	}
	return children
}

// Roots returns the IDs of all root accounts, sorted ascending.
func Roots(accounts map[int64]model.Account) []int64 {
	var roots []int64
	for id, a := range accounts {
		if a.IsRootAccount() {
			roots = append(roots, id)
		}
	}
	sortIDs(roots)
	return roots
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// DisplayName joins the names of a and its ancestors with Separator, the most
// distant ancestor first. A parent missing from accounts ends the chain.
func DisplayName(a model.Account, accounts map[int64]model.Account) (string, error) {
	names := []string{a.Name}
	visited := map[int64]bool{a.AccountId: true}
	cur := a
	for !cur.IsRootAccount() {
		parent, ok := accounts[cur.ParentAccountId]
		if !ok {
			break
		}
		if visited[parent.AccountId] {
			return "", fmt.Errorf("account %d: %w", a.AccountId, ErrCycle)
		}
		visited[parent.AccountId] = true
		names = append(names, parent.Name)
		cur = parent
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, Separator), nil
}

// DisplayList flattens the tree depth-first, parents before children. When
// includeRoot is set the list starts with a synthetic {-1, rootLabel} entry.
// Accounts whose parent is missing are left out.
func DisplayList(accounts map[int64]model.Account, children map[int64][]int64, includeRoot bool, rootLabel string) ([]DisplayEntry, error) {
	var out []DisplayEntry
	if includeRoot {
		out = append(out, DisplayEntry{AccountId: -1, Name: rootLabel})
	}

	visited := make(map[int64]bool, len(accounts))
	var walk func(id int64, prefix string, depth int) error
	walk = func(id int64, prefix string, depth int) error {
		if visited[id] {
			return fmt.Errorf("account %d: %w", id, ErrCycle)
		}
		visited[id] = true
		name := prefix + accounts[id].Name
		out = append(out, DisplayEntry{AccountId: id, Name: name, Depth: depth})
		for _, child := range children[id] {
			if err := walk(child, name+Separator, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range Roots(accounts) {
		if err := walk(id, "", 0); err != nil {
			return nil, err
		}
	}

	// Anything not reached is either an orphan or sits on a cycle.
	for id, a := range accounts {
		if visited[id] {
			continue
		}
		if _, err := DisplayName(a, accounts); err != nil {
			return nil, err
		}
	}
	return out, nil
}

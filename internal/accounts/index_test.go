package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func acct(id, parent int64, name string) model.Account {
	a := model.NewAccount()
	a.AccountId = id
	a.ParentAccountId = parent
	a.Name = name
	return a
}

func accountMap(accts ...model.Account) map[int64]model.Account {
	m := make(map[int64]model.Account, len(accts))
	for _, a := range accts {
		m[a.AccountId] = a
	}
	return m
}

// Assets(1) -> Bank(2) -> Checking(3); Expenses(4)
func sampleTree() map[int64]model.Account {
	return accountMap(
		acct(1, -1, "Assets"),
		acct(2, 1, "Bank"),
		acct(3, 2, "Checking"),
		acct(4, -1, "Expenses"),
	)
}

func TestBuildChildren(t *testing.T) {
	children := BuildChildren(sampleTree())

	assert.Len(t, children, 4)
	assert.Equal(t, []int64{2}, children[1])
	assert.Equal(t, []int64{3}, children[2])
	assert.NotNil(t, children[3])
	assert.Empty(t, children[3])
	assert.Empty(t, children[4])
}

func TestBuildChildren_SortedAndOrphans(t *testing.T) {
	m := accountMap(
		acct(1, -1, "Root"),
		acct(9, 1, "Z"),
		acct(5, 1, "A"),
		acct(7, 1, "M"),
		acct(8, 42, "Orphan"),
	)
	children := BuildChildren(m)
	assert.Equal(t, []int64{5, 7, 9}, children[1])
	assert.Empty(t, children[8])
	_, ok := children[42]
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	m := sampleTree()
	tests := []struct {
		id   int64
		want string
	}{
		{1, "Assets"},
		{2, "Assets/Bank"},
		{3, "Assets/Bank/Checking"},
		{4, "Expenses"},
	}
	for _, tt := range tests {
		got, err := DisplayName(m[tt.id], m)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDisplayName_MissingParent(t *testing.T) {
	m := accountMap(acct(2, 1, "Bank"), acct(3, 2, "Checking"))
	got, err := DisplayName(m[3], m)
	require.NoError(t, err)
	assert.Equal(t, "Bank/Checking", got)
}

func TestDisplayName_Cycle(t *testing.T) {
	m := accountMap(acct(1, 2, "A"), acct(2, 1, "B"))
	_, err := DisplayName(m[1], m)
	assert.ErrorIs(t, err, ErrCycle)

	self := accountMap(acct(5, 5, "Self"))
	_, err = DisplayName(self[5], self)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestDisplayList(t *testing.T) {
	m := sampleTree()
	list, err := DisplayList(m, BuildChildren(m), true, "New Top-level Account")
	require.NoError(t, err)

	assert.Equal(t, []DisplayEntry{
		{AccountId: -1, Name: "New Top-level Account"},
		{AccountId: 1, Name: "Assets"},
		{AccountId: 2, Name: "Assets/Bank", Depth: 1},
		{AccountId: 3, Name: "Assets/Bank/Checking", Depth: 2},
		{AccountId: 4, Name: "Expenses"},
	}, list)
}

func TestDisplayList_WithoutRoot(t *testing.T) {
	m := sampleTree()
	list, err := DisplayList(m, BuildChildren(m), false, "ignored")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, int64(1), list[0].AccountId)
}

func TestDisplayList_MatchesDisplayName(t *testing.T) {
	m := accountMap(
		acct(1, -1, "A"),
		acct(2, 1, "B"),
		acct(3, 1, "C"),
		acct(4, 3, "D"),
		acct(5, -1, "E"),
	)
	list, err := DisplayList(m, BuildChildren(m), false, "")
	require.NoError(t, err)
	for _, e := range list {
		name, err := DisplayName(m[e.AccountId], m)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name)
	}
}

func TestDisplayList_Empty(t *testing.T) {
	list, err := DisplayList(map[int64]model.Account{}, map[int64][]int64{}, true, "Root")
	require.NoError(t, err)
	assert.Equal(t, []DisplayEntry{{AccountId: -1, Name: "Root"}}, list)
}

func TestDisplayList_Cycle(t *testing.T) {
	m := accountMap(acct(1, -1, "Root"), acct(2, 3, "B"), acct(3, 2, "C"))
	_, err := DisplayList(m, BuildChildren(m), false, "")
	assert.ErrorIs(t, err, ErrCycle)
}

func TestDisplayList_SkipsOrphans(t *testing.T) {
	m := accountMap(acct(1, -1, "Root"), acct(2, 99, "Orphan"))
	list, err := DisplayList(m, BuildChildren(m), false, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

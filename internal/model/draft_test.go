package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft(7, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, d.Splits, 2)
	assert.Equal(t, int64(7), d.Splits[0].AccountId)
	assert.Equal(t, int64(-1), d.Splits[1].AccountId)
	for _, s := range d.Splits {
		assert.Equal(t, SplitStatusEntered, s.Status)
	}
	assert.False(t, d.IsTransaction())
}

func TestDraftEditing(t *testing.T) {
	d := NewDraft(7, Epoch)
	d.Splits[1].SecurityId = 2

	withThird := d.AddSplit()
	assert.Len(t, d.Splits, 2)
	assert.Len(t, withThird.Splits, 3)

	assigned, err := withThird.AssignAccount(1, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), assigned.Splits[1].AccountId)
	assert.Equal(t, int64(-1), assigned.Splits[1].SecurityId)
	assert.Equal(t, int64(2), withThird.Splits[1].SecurityId)

	priced, err := assigned.SetAmount(0, decimal.NewFromInt(-20))
	require.NoError(t, err)
	assert.Equal(t, "-20", priced.Splits[0].Amount.String())
	assert.True(t, assigned.Splits[0].Amount.IsZero())

	removed, err := priced.RemoveSplit(2)
	require.NoError(t, err)
	assert.Len(t, removed.Splits, 2)
	assert.Len(t, priced.Splits, 3)

	_, err = removed.RemoveSplit(5)
	assert.Error(t, err)
	_, err = removed.AssignAccount(-1, 1)
	assert.Error(t, err)
	_, err = removed.SetAmount(2, decimal.Zero)
	assert.Error(t, err)
}

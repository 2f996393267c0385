package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func tabulation() *model.Tabulation {
	return &model.Tabulation{
		ReportId: 1,
		Title:    "Monthly Expenses",
		Labels:   []string{"Jan", "Feb"},
		Series: map[string]*model.Series{
			"Expenses": expenses(),
			"Income":   series([]float64{-50, -60}, nil),
		},
	}
}

func TestNewDrill(t *testing.T) {
	d := NewDrill(tabulation())

	assert.Empty(t, d.Path)
	assert.Equal(t, map[string][]float64{
		"Expenses": {116, 126},
		"Income":   {-50, -60},
	}, d.Flattened)
	assert.Equal(t, []string{"Expenses", "Income"}, d.Names())
}

func TestSelectSeries_WithOwnValues(t *testing.T) {
	d, err := SelectSeries(tabulation(), []string{"Expenses"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Expenses"}, d.Path)
	assert.Equal(t, map[string][]float64{
		TopLevelSeriesName: {1, 1},
		"Food":             {15, 25},
		"Rent":             {100, 100},
	}, d.Flattened)
	assert.Equal(t, []string{TopLevelSeriesName, "Food", "Rent"}, d.Names())
}

func TestSelectSeries_Leaf(t *testing.T) {
	d, err := SelectSeries(tabulation(), []string{"Income"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{TopLevelSeriesName: {-50, -60}}, d.Flattened)
}

func TestSelectSeries_Invalid(t *testing.T) {
	_, err := SelectSeries(tabulation(), []string{"Expenses", "Travel"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSeries)
	assert.Contains(t, err.Error(), "Expenses/Travel")
}

func TestDescendAscend(t *testing.T) {
	d := NewDrill(tabulation())

	d, err := d.Descend("Expenses")
	require.NoError(t, err)
	d, err = d.Descend("Food")
	require.NoError(t, err)
	assert.Equal(t, []string{"Expenses", "Food"}, d.Path)
	assert.Equal(t, map[string][]float64{
		TopLevelSeriesName: {10, 20},
		"Groceries":        {5, 5},
	}, d.Flattened)

	same, err := d.Descend(TopLevelSeriesName)
	require.NoError(t, err)
	assert.Equal(t, d, same)

	unchanged, err := d.Descend("Nope")
	assert.ErrorIs(t, err, ErrInvalidSeries)
	assert.Equal(t, d, unchanged)

	up, err := d.Ascend(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Expenses"}, up.Path)

	top, err := d.Ascend(0)
	require.NoError(t, err)
	assert.Empty(t, top.Path)

	_, err = d.Ascend(3)
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestDescend_DoesNotAliasPath(t *testing.T) {
	d, err := SelectSeries(tabulation(), []string{"Expenses"})
	require.NoError(t, err)

	food, err := d.Descend("Food")
	require.NoError(t, err)
	rent, err := d.Descend("Rent")
	require.NoError(t, err)

	assert.Equal(t, []string{"Expenses", "Food"}, food.Path)
	assert.Equal(t, []string{"Expenses", "Rent"}, rent.Path)
}

func TestBreadcrumbs(t *testing.T) {
	d, err := SelectSeries(tabulation(), []string{"Expenses", "Food"})
	require.NoError(t, err)

	assert.Equal(t, []Crumb{
		{Label: "Monthly Expenses", Depth: 0},
		{Label: "Expenses", Depth: 1},
		{Label: "Food", Depth: 2},
	}, d.Breadcrumbs())
}

func TestTotals(t *testing.T) {
	d := NewDrill(tabulation())
	assert.Equal(t, map[string]float64{"Expenses": 242, "Income": -110}, d.Totals())
}

func TestView(t *testing.T) {
	tab := tabulation()
	tab.Subtitle, tab.Units = "2024", "USD"
	d, err := SelectSeries(tab, []string{"Expenses"})
	require.NoError(t, err)

	v := d.View()
	assert.Equal(t, "Monthly Expenses", v.Title)
	assert.Equal(t, "2024", v.Subtitle)
	assert.Equal(t, "USD", v.Units)
	assert.Equal(t, []string{"Jan", "Feb"}, v.Labels)
	assert.Equal(t, []NamedSeries{
		{Name: TopLevelSeriesName, Values: []float64{1, 1}},
		{Name: "Food", Values: []float64{15, 25}},
		{Name: "Rent", Values: []float64{100, 100}},
	}, v.Series)

	v.Series[1].Values[0] = 0
	assert.Equal(t, []float64{15, 25}, d.Flattened["Food"])
}

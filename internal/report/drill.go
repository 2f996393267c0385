package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// TopLevelSeriesName labels a node's own values when they are shown next to
// its children. It can never be descended into.
const TopLevelSeriesName = "(top level)"

// ErrInvalidSeries is returned when a path names a series that does not exist.
var ErrInvalidSeries = errors.New("invalid series")

// Drill is the current position within a tabulation: the path of series
// names from the root and the flattened view of the node at that path.
type Drill struct {
	Tabulation *model.Tabulation
	Path       []string
	Flattened  map[string][]float64
}

// NewDrill starts at the top of t.
func NewDrill(t *model.Tabulation) Drill {
	d, _ := SelectSeries(t, nil)
	return d
}

// SelectSeries resolves path from the root of t and computes the view there.
func SelectSeries(t *model.Tabulation, path []string) (Drill, error) {
	node := t.Root()
	for i, name := range path {
		child := node.Child(name)
		if child == nil {
			return Drill{}, fmt.Errorf("%w: %q at %s", ErrInvalidSeries, name, strings.Join(path[:i+1], "/"))
		}
		node = child
	}

	flat := FlattenChildren(node)
	if len(node.Values) > 0 {
		flat[TopLevelSeriesName] = copyValues(node.Values)
	}
	return Drill{
		Tabulation: t,
		Path:       append([]string{}, path...),
		Flattened:  flat,
	}, nil
}

// Descend moves into the named child. Selecting TopLevelSeriesName leaves d
// unchanged; an unknown name returns d unchanged with the error.
func (d Drill) Descend(name string) (Drill, error) {
	if name == TopLevelSeriesName {
		return d, nil
	}
	next, err := SelectSeries(d.Tabulation, append(append([]string{}, d.Path...), name))
	if err != nil {
		return d, err
	}
	return next, nil
}

// Ascend moves back to the ancestor at depth, 0 being the root.
func (d Drill) Ascend(depth int) (Drill, error) {
	if depth < 0 || depth > len(d.Path) {
		return d, fmt.Errorf("%w: depth %d outside [0,%d]", ErrInvalidSeries, depth, len(d.Path))
	}
	next, err := SelectSeries(d.Tabulation, d.Path[:depth])
	if err != nil {
		return d, err
	}
	return next, nil
}

// Crumb is one step of the navigation trail.
type Crumb struct {
	Label string
	Depth int
}

// Breadcrumbs lists the trail from the root to the current node. The root
// crumb carries the tabulation title.
func (d Drill) Breadcrumbs() []Crumb {
	crumbs := []Crumb{{Label: d.Tabulation.Title, Depth: 0}}
	for i, name := range d.Path {
		crumbs = append(crumbs, Crumb{Label: name, Depth: i + 1})
	}
	return crumbs
}

// Names returns the flattened series names, sorted, with TopLevelSeriesName
// first when present.
func (d Drill) Names() []string {
	names := SortedNames(d.Flattened)
	for i, n := range names {
		if n == TopLevelSeriesName {
			names = append([]string{n}, append(names[:i:i], names[i+1:]...)...)
			break
		}
	}
	return names
}

// Totals sums each flattened series across all of its columns.
func (d Drill) Totals() map[string]float64 {
	out := make(map[string]float64, len(d.Flattened))
	for name, values := range d.Flattened {
		var sum float64
		for _, v := range values {
			sum += v
		}
		out[name] = sum
	}
	return out
}

// NamedSeries is one line of a chart.
type NamedSeries struct {
	Name   string
	Values []float64
}

// View is what a chart needs to draw the current node.
type View struct {
	Title    string
	Subtitle string
	Units    string
	Labels   []string
	Series   []NamedSeries // in Names order
}

// View returns the current node ready for charting.
func (d Drill) View() View {
	v := View{
		Title:    d.Tabulation.Title,
		Subtitle: d.Tabulation.Subtitle,
		Units:    d.Tabulation.Units,
		Labels:   append([]string{}, d.Tabulation.Labels...),
	}
	for _, name := range d.Names() {
		v.Series = append(v.Series, NamedSeries{Name: name, Values: copyValues(d.Flattened[name])})
	}
	return v
}

// SortedNames returns the keys of m in ascending order.
func SortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package report aggregates report series trees and tracks drill-down
// navigation through them.
package report

import "github.com/cleared-dev/tally/internal/model"

// MapReduce applies mapFn to s's own values and folds each child's result
// into it with reduceFn, recursively. Children are visited in name order.
func MapReduce(s *model.Series, mapFn func([]float64) []float64, reduceFn func(acc, next []float64) []float64) []float64 {
	if s == nil {
		return nil
	}
	acc := mapFn(s.Values)
	for _, name := range SortedNames(s.Series) {
		acc = reduceFn(acc, MapReduce(s.Series[name], mapFn, reduceFn))
	}
	return acc
}

// Rollup returns s's own values plus the element-wise sum of every
// descendant. The result is as long as the longest vector in the subtree.
func Rollup(s *model.Series) []float64 {
	return MapReduce(s, copyValues, addValues)
}

// FlattenChildren returns the rollup of each immediate child of s.
func FlattenChildren(s *model.Series) map[string][]float64 {
	out := make(map[string][]float64)
	if s == nil {
		return out
	}
	for name, child := range s.Series {
		out[name] = Rollup(child)
	}
	return out
}

func copyValues(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func addValues(acc, next []float64) []float64 {
	if len(next) > len(acc) {
		grown := make([]float64, len(next))
		copy(grown, acc)
		acc = grown
	}
	for i, v := range next {
		acc[i] += v
	}
	return acc
}

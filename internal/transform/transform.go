// Package transform implements the transform-and-model stage: it takes the
// raw source datasets, normalizes and data-quality-filters them, assigns
// surrogate keys, and produces the dimensional model plus the daily value
// rollups. The stage is a linear sequence of whole-table steps; each step
// consumes the complete output of its predecessor.
package transform

import "finetl/internal/dataset"

// Step is a whole-table transformation. Steps may mutate cells of the input
// dataset in place and must return the dataset they produced.
type Step interface {
	Apply(*dataset.Dataset) *dataset.Dataset
}

// Chain is an ordered list of steps.
type Chain []Step

func (c Chain) Apply(in *dataset.Dataset) *dataset.Dataset {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}

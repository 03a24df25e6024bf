package table

import (
	"fmt"

	"github.com/arloliu/coltab/aggregate"
	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
)

// Summarizer reduces target columns of a table, optionally per group.
type Summarizer struct {
	source   *Table
	targets  []string
	reducers []aggregate.Reducer
}

// Summarize prepares a summary of the named columns. Finish it with Apply
// for whole-table totals or By for per-group rows.
//
// Example:
//
//	t.Summarize([]string{"IQ"}, aggregate.Mean, aggregate.Max).By("City")
func (t *Table) Summarize(columns []string, reducers ...aggregate.Reducer) *Summarizer {
	return &Summarizer{source: t, targets: columns, reducers: reducers}
}

// Apply summarizes the whole table into a single row.
func (s *Summarizer) Apply() (*Table, error) {
	return s.By()
}

// By summarizes each group of rows sharing the values of the named columns.
//
// The result has the grouping columns first, then one column per target and
// reducer pair, named "<Reducer> [<column>]" and ordered target-major. Rows
// appear in the first-appearance order of their group key.
func (s *Summarizer) By(groups ...string) (*Table, error) {
	if len(s.targets) == 0 || len(s.reducers) == 0 {
		return nil, fmt.Errorf("%w: %d columns, %d reducers", errs.ErrEmptySummary, len(s.targets), len(s.reducers))
	}

	targets := make([]column.Column, len(s.targets))
	for i, name := range s.targets {
		c, err := s.source.Column(name)
		if err != nil {
			return nil, err
		}
		targets[i] = c
	}

	type output struct {
		in      column.Column
		reducer aggregate.Reducer
		out     column.Column
	}
	outputs := make([]output, 0, len(targets)*len(s.reducers))
	for _, in := range targets {
		for _, r := range s.reducers {
			out, err := r.NewOutput(in)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, output{in: in, reducer: r, out: out})
		}
	}

	g, err := s.source.SplitOn(groups...)
	if err != nil {
		return nil, err
	}

	keyOut := make([]column.Column, len(g.keyCols))
	for i, c := range g.keyCols {
		keyOut[i] = c.EmptyCopy()
	}
	for _, slice := range g.slices {
		for i, c := range g.keyCols {
			if err := keyOut[i].AppendFrom(c, slice.rows[0]); err != nil {
				return nil, err
			}
		}
		for _, o := range outputs {
			if err := o.reducer.ReduceInto(o.in, slice.rows, o.out); err != nil {
				return nil, err
			}
		}
	}

	result := &Table{name: s.source.name + " summary"}
	for _, o := range outputs {
		keyOut = append(keyOut, o.out)
	}
	if err := result.AddColumns(keyOut...); err != nil {
		return nil, err
	}

	return result, nil
}

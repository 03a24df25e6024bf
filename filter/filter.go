// Package filter builds row filters from deferred column references.
//
// A Filter is a pure function from a table to the Selection of rows it
// matches. Filters capture column names, not columns, so one filter can be
// applied to any table with a compatible schema:
//
//	smart := filter.Int("IQ").Greater(120)
//	local := filter.Text("City").In("Oslo", "Bergen")
//	rows, err := filter.And(smart, filter.Not(local))(tbl)
//
// Column resolution happens when the filter is applied. A missing column
// yields errs.ErrColumnNotFound and a column of the wrong type yields
// errs.ErrTypeMismatch; building a filter never fails.
//
// Comparison predicates never match a row where either operand is missing.
// Use IsMissing and IsNotMissing to select on missingness explicitly.
package filter

import (
	"fmt"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/selection"
)

// Source is the table-shaped input of a Filter.
type Source interface {
	// Column returns the named column or an error wrapping errs.ErrColumnNotFound.
	Column(name string) (column.Column, error)
	// RowCount returns the number of rows.
	RowCount() int
}

// Filter selects the rows of a Source.
type Filter func(src Source) (*selection.Selection, error)

// Apply evaluates f against src.
func (f Filter) Apply(src Source) (*selection.Selection, error) {
	return f(src)
}

// And matches rows matched by every filter. All filters are evaluated left
// to right. With no filters it fails with errs.ErrEmptyFilter when applied.
func And(filters ...Filter) Filter {
	return combine("And", filters, (*selection.Selection).And)
}

// Or matches rows matched by any filter. All filters are evaluated left to
// right. With no filters it fails with errs.ErrEmptyFilter when applied.
func Or(filters ...Filter) Filter {
	return combine("Or", filters, (*selection.Selection).Or)
}

func combine(name string, filters []Filter, merge func(*selection.Selection, *selection.Selection) *selection.Selection) Filter {
	return func(src Source) (*selection.Selection, error) {
		if len(filters) == 0 {
			return nil, fmt.Errorf("%w: %s of zero filters", errs.ErrEmptyFilter, name)
		}

		var acc *selection.Selection
		for _, f := range filters {
			sel, err := f(src)
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = sel.Clone()
				continue
			}
			merge(acc, sel)
		}

		return acc, nil
	}
}

// Not matches every row of the source that f does not match.
func Not(f Filter) Filter {
	return func(src Source) (*selection.Selection, error) {
		sel, err := f(src)
		if err != nil {
			return nil, err
		}

		return sel.Complement(src.RowCount()), nil
	}
}

// All matches every row.
func All() Filter {
	return func(src Source) (*selection.Selection, error) {
		return selection.WithRange(0, src.RowCount()), nil
	}
}

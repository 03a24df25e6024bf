package filter

import (
	"fmt"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/selection"
)

type op uint8

const (
	opIsMissing op = iota
	opIsNotMissing
	opMatches
	opMatchesOrMissing
	opEqual
	opNotEqual
	opLess
	opLessOrEqual
	opGreater
	opGreaterOrEqual
	opBetween
	opIn
	opEqualColumn
	opNotEqualColumn
	opLessColumn
	opGreaterColumn
)

// predicate is a tagged description of a row test over values of T.
// Which fields are meaningful depends on op.
type predicate[T comparable] struct {
	op    op
	fn    func(T) bool
	lo    T
	hi    T
	set   map[T]struct{}
	other string
}

// view is the read-only shape of a resolved column.
type view[T comparable] struct {
	n       int
	get     func(i int) T
	missing func(i int) bool
	compare func(a, b T) int
}

type resolver[T comparable] func(c column.Column) (view[T], error)

// evaluate is the single evaluator behind every predicate.
func evaluate[T comparable](src Source, name string, resolve resolver[T], p predicate[T]) (*selection.Selection, error) {
	c, err := src.Column(name)
	if err != nil {
		return nil, err
	}
	v, err := resolve(c)
	if err != nil {
		return nil, err
	}

	sel := selection.New()
	switch p.op {
	case opIsMissing:
		for i := range v.n {
			if v.missing(i) {
				sel.Add(i)
			}
		}

		return sel, nil
	case opIsNotMissing:
		for i := range v.n {
			if !v.missing(i) {
				sel.Add(i)
			}
		}

		return sel, nil
	case opMatchesOrMissing:
		for i := range v.n {
			if v.missing(i) || p.fn(v.get(i)) {
				sel.Add(i)
			}
		}

		return sel, nil
	case opEqualColumn, opNotEqualColumn, opLessColumn, opGreaterColumn:
		return evaluateColumns(src, v, resolve, p)
	}

	test := scalarTest(v.compare, p)
	for i := range v.n {
		if v.missing(i) {
			continue
		}
		if test(v.get(i)) {
			sel.Add(i)
		}
	}

	return sel, nil
}

func scalarTest[T comparable](compare func(a, b T) int, p predicate[T]) func(T) bool {
	switch p.op {
	case opMatches:
		return p.fn
	case opEqual:
		return func(x T) bool { return compare(x, p.lo) == 0 }
	case opNotEqual:
		return func(x T) bool { return compare(x, p.lo) != 0 }
	case opLess:
		return func(x T) bool { return compare(x, p.lo) < 0 }
	case opLessOrEqual:
		return func(x T) bool { return compare(x, p.lo) <= 0 }
	case opGreater:
		return func(x T) bool { return compare(x, p.lo) > 0 }
	case opGreaterOrEqual:
		return func(x T) bool { return compare(x, p.lo) >= 0 }
	case opBetween:
		return func(x T) bool { return compare(x, p.lo) >= 0 && compare(x, p.hi) <= 0 }
	case opIn:
		return func(x T) bool {
			_, ok := p.set[x]
			return ok
		}
	}

	panic(fmt.Sprintf("filter: unhandled predicate op %d", p.op))
}

func evaluateColumns[T comparable](src Source, left view[T], resolve resolver[T], p predicate[T]) (*selection.Selection, error) {
	c, err := src.Column(p.other)
	if err != nil {
		return nil, err
	}
	right, err := resolve(c)
	if err != nil {
		return nil, err
	}
	if right.n != left.n {
		return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", errs.ErrRowCountMismatch, p.other, right.n, left.n)
	}

	var keep func(int) bool
	switch p.op {
	case opEqualColumn:
		keep = func(c int) bool { return c == 0 }
	case opNotEqualColumn:
		keep = func(c int) bool { return c != 0 }
	case opLessColumn:
		keep = func(c int) bool { return c < 0 }
	default:
		keep = func(c int) bool { return c > 0 }
	}

	sel := selection.New()
	for i := range left.n {
		if left.missing(i) || right.missing(i) {
			continue
		}
		if keep(left.compare(left.get(i), right.get(i))) {
			sel.Add(i)
		}
	}

	return sel, nil
}

package table

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
)

// SortKey is one resolved key of a Sort.
type SortKey struct {
	// Column is the exact name of the key column.
	Column string
	// Descending reverses the column's natural order.
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return "-" + k.Column
	}

	return "+" + k.Column
}

// Sort is a validated, stable multi-key ordering.
//
// Keys are compared left to right; rows equal on every key keep their
// original relative order. Missing cells sort first in ascending order and
// last in descending order. A Sort is built once and can be applied to any
// table that has its key columns.
type Sort struct {
	keys []SortKey
}

// NewSort parses keys against the columns of t.
//
// Each key is a column name optionally prefixed by "+" (ascending) or "-"
// (descending); a bare name sorts ascending. A key that exactly matches a
// column name always means that column, even when it starts with "+" or "-".
//
// Parameters:
//   - t: Table whose columns the keys must name
//   - keys: One or more sort keys
//
// Returns:
//   - *Sort: The validated sort
//   - error: ErrInvalidSortKey when no key is given, ErrUnknownColumnPrefix when
//     a key starts with a character that can begin neither a prefix nor a
//     column name, or ErrColumnNotFound when a key names an absent column
func NewSort(t *Table, keys ...string) (*Sort, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no sort keys", errs.ErrInvalidSortKey)
	}

	s := &Sort{keys: make([]SortKey, 0, len(keys))}
	for _, key := range keys {
		k, err := parseSortKey(t, key)
		if err != nil {
			return nil, err
		}
		s.keys = append(s.keys, k)
	}

	return s, nil
}

func parseSortKey(t *Table, key string) (SortKey, error) {
	if c, err := t.Column(key); err == nil {
		return SortKey{Column: c.Name()}, nil
	}

	r, _ := utf8.DecodeRuneInString(key)
	switch {
	case key == "":
		return SortKey{}, fmt.Errorf("%w: empty sort key", errs.ErrInvalidSortKey)
	case r == '+' || r == '-':
		c, err := t.Column(strings.TrimSpace(key[1:]))
		if err != nil {
			return SortKey{}, err
		}

		return SortKey{Column: c.Name(), Descending: r == '-'}, nil
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return SortKey{}, fmt.Errorf("%w: %q in table %q", errs.ErrColumnNotFound, key, t.name)
	}

	return SortKey{}, fmt.Errorf("%w: %q in sort key %q", errs.ErrUnknownColumnPrefix, r, key)
}

// NewSortOnIndices builds a sort from 1-based signed column positions:
// k sorts ascending on the k-th column and -k descending. Zero and positions
// beyond the column count fail with ErrInvalidSortKey.
func NewSortOnIndices(t *Table, positions ...int) (*Sort, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no sort keys", errs.ErrInvalidSortKey)
	}

	s := &Sort{keys: make([]SortKey, 0, len(positions))}
	for _, p := range positions {
		idx := p
		if idx < 0 {
			idx = -idx
		}
		if idx == 0 || idx > t.ColumnCount() {
			return nil, fmt.Errorf("%w: position %d with %d columns", errs.ErrInvalidSortKey, p, t.ColumnCount())
		}
		s.keys = append(s.keys, SortKey{Column: t.columns[idx-1].Name(), Descending: p < 0})
	}

	return s, nil
}

// newNamedSort sorts every name in one direction, without prefix parsing.
func newNamedSort(t *Table, descending bool, names []string) (*Sort, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no sort keys", errs.ErrInvalidSortKey)
	}

	s := &Sort{keys: make([]SortKey, 0, len(names))}
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		s.keys = append(s.keys, SortKey{Column: c.Name(), Descending: descending})
	}

	return s, nil
}

// Keys returns the resolved keys in priority order.
func (s *Sort) Keys() []SortKey { return slices.Clone(s.keys) }

// Permutation returns the row order of t under s: the i-th sorted row is
// row perm[i] of t. The permutation can be reused with Table.Rows.
func (s *Sort) Permutation(t *Table) ([]int, error) {
	cols := make([]column.Column, len(s.keys))
	for i, k := range s.keys {
		c, err := t.Column(k.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	perm := make([]int, t.RowCount())
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		for i, c := range cols {
			r := c.CompareRows(a, b)
			if r == 0 {
				continue
			}
			if s.keys[i].Descending {
				return -r
			}

			return r
		}

		return 0
	})

	return perm, nil
}

// Apply returns t reordered by s.
func (s *Sort) Apply(t *Table) (*Table, error) {
	perm, err := s.Permutation(t)
	if err != nil {
		return nil, err
	}

	return t.Rows(perm), nil
}

func (s *Sort) String() string {
	parts := make([]string, len(s.keys))
	for i, k := range s.keys {
		parts[i] = k.String()
	}

	return strings.Join(parts, ", ")
}

// SortOn returns t sorted by keys; see NewSort for the key syntax.
func (t *Table) SortOn(keys ...string) (*Table, error) {
	s, err := NewSort(t, keys...)
	if err != nil {
		return nil, err
	}

	return s.Apply(t)
}

// SortAscendingOn returns t sorted ascending on the named columns.
func (t *Table) SortAscendingOn(names ...string) (*Table, error) {
	s, err := newNamedSort(t, false, names)
	if err != nil {
		return nil, err
	}

	return s.Apply(t)
}

// SortDescendingOn returns t sorted descending on the named columns.
func (t *Table) SortDescendingOn(names ...string) (*Table, error) {
	s, err := newNamedSort(t, true, names)
	if err != nil {
		return nil, err
	}

	return s.Apply(t)
}

// SortOnIndices returns t sorted by 1-based signed column positions; see
// NewSortOnIndices.
func (t *Table) SortOnIndices(positions ...int) (*Table, error) {
	s, err := NewSortOnIndices(t, positions...)
	if err != nil {
		return nil, err
	}

	return s.Apply(t)
}

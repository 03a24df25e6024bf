// Package table provides the Table type and the operations that derive new
// tables from it: row selection, filtering, sampling, sorting, grouping and
// summarizing.
//
// A Table is a named, ordered list of columns of equal length. Derivation
// operations never modify their receiver; they return new tables that share
// no column state with it.
//
// # Basic Usage
//
//	t, err := table.New("people",
//	    column.NewText("Name", "Ann", "Bob", "Cid"),
//	    column.NewInt("IQ", 120, 98, 120),
//	)
//	sorted, err := t.SortOn("-IQ", "Name")
//	smart, err := t.Filter(filter.Int("IQ").GreaterOrEqual(110))
//	byIQ, err := t.Summarize([]string{"IQ"}, aggregate.Count).By("IQ")
//
// Column names are matched case-insensitively everywhere.
package table

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/filter"
	"github.com/arloliu/coltab/selection"
)

// Table is a named collection of equal-length columns.
type Table struct {
	name    string
	columns []column.Column
}

var _ filter.Source = (*Table)(nil)

// New creates a table holding cols.
//
// Parameters:
//   - name: Table name
//   - cols: Columns in display order; all must have the same length
//
// Returns:
//   - *Table: The new table
//   - error: ErrRowCountMismatch or ErrDuplicateColumn
func New(name string, cols ...column.Column) (*Table, error) {
	t := &Table{name: name}
	if err := t.AddColumns(cols...); err != nil {
		return nil, err
	}

	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// SetName renames the table.
func (t *Table) SetName(name string) { t.name = name }

// RowCount returns the number of rows; a table without columns has none.
func (t *Table) RowCount() int {
	if len(t.columns) == 0 {
		return 0
	}

	return t.columns[0].Len()
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []column.Column { return slices.Clone(t.columns) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}

	return names
}

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) column.Column { return t.columns[i] }

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.columns {
		if strings.EqualFold(c.Name(), name) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q in table %q", errs.ErrColumnNotFound, name, t.name)
}

// Column returns the named column.
func (t *Table) Column(name string) (column.Column, error) {
	i, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	return t.columns[i], nil
}

// ContainsColumn reports whether the table has a column with the given name.
func (t *Table) ContainsColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// AddColumns appends cols. Either every column is added or, on error, none.
//
// Every column must match the table's row count (or, for a table without
// columns, the first new column's length), and no name may repeat an existing
// or another new column name.
func (t *Table) AddColumns(cols ...column.Column) error {
	if len(cols) == 0 {
		return nil
	}

	rows := cols[0].Len()
	if len(t.columns) > 0 {
		rows = t.RowCount()
	}
	seen := make(map[string]struct{}, len(t.columns)+len(cols))
	for _, c := range t.columns {
		seen[strings.ToLower(c.Name())] = struct{}{}
	}
	for _, c := range cols {
		if c.Len() != rows {
			return fmt.Errorf("%w: column %q has %d rows, table %q has %d",
				errs.ErrRowCountMismatch, c.Name(), c.Len(), t.name, rows)
		}
		key := strings.ToLower(c.Name())
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q in table %q", errs.ErrDuplicateColumn, c.Name(), t.name)
		}
		seen[key] = struct{}{}
	}
	t.columns = append(t.columns, cols...)

	return nil
}

// RemoveColumns removes the named columns. Either every column is removed or,
// when a name is unknown, none.
func (t *Table) RemoveColumns(names ...string) error {
	drop := make(map[int]struct{}, len(names))
	for _, name := range names {
		i, err := t.ColumnIndex(name)
		if err != nil {
			return err
		}
		drop[i] = struct{}{}
	}

	kept := t.columns[:0:0]
	for i, c := range t.columns {
		if _, ok := drop[i]; !ok {
			kept = append(kept, c)
		}
	}
	t.columns = kept

	return nil
}

// Select returns a table holding only the named columns, in the given order.
// The columns are shared with t.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{name: t.name}
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumns(c); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (t *Table) derive(fn func(column.Column) column.Column) *Table {
	out := &Table{name: t.name, columns: make([]column.Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = fn(c)
	}

	return out
}

// Where returns the selected rows, in ascending row order. Members at or
// beyond RowCount are ignored.
func (t *Table) Where(sel *selection.Selection) *Table {
	sel = sel.Clamp(t.RowCount())
	return t.derive(func(c column.Column) column.Column { return c.Where(sel) })
}

// Rows returns the given rows in the given order. Rows may repeat.
func (t *Table) Rows(rows []int) *Table {
	return t.derive(func(c column.Column) column.Column { return c.Take(rows) })
}

// DropWhere returns every row that is not selected.
func (t *Table) DropWhere(sel *selection.Selection) *Table {
	return t.Where(sel.Complement(t.RowCount()))
}

// Filter returns the rows matched by f.
func (t *Table) Filter(f filter.Filter) (*Table, error) {
	sel, err := f(t)
	if err != nil {
		return nil, err
	}

	return t.Where(sel), nil
}

// DropFilter returns the rows not matched by f.
func (t *Table) DropFilter(f filter.Filter) (*Table, error) {
	sel, err := f(t)
	if err != nil {
		return nil, err
	}

	return t.DropWhere(sel), nil
}

// First returns the first n rows, or every row when n exceeds the row count.
func (t *Table) First(n int) *Table {
	return t.Where(selection.WithRange(0, min(max(n, 0), t.RowCount())))
}

// Last returns the last n rows, or every row when n exceeds the row count.
func (t *Table) Last(n int) *Table {
	rows := t.RowCount()
	return t.Where(selection.WithRange(rows-min(max(n, 0), rows), rows))
}

// SampleN returns n rows chosen uniformly without replacement, in their
// original order.
//
// Parameters:
//   - n: Number of rows, between 0 and RowCount
//   - rng: Source of randomness; pass a seeded generator for repeatable samples
//
// Returns:
//   - *Table: The sampled rows
//   - error: ErrInvalidSampleSize when n is out of range
func (t *Table) SampleN(n int, rng *rand.Rand) (*Table, error) {
	rows := t.RowCount()
	if n < 0 || n > rows {
		return nil, fmt.Errorf("%w: %d rows requested from %d", errs.ErrInvalidSampleSize, n, rows)
	}

	// Floyd's algorithm: n draws, each row equally likely.
	sel := selection.New()
	for j := rows - n; j < rows; j++ {
		r := rng.IntN(j + 1)
		if sel.Contains(r) {
			sel.Add(j)
		} else {
			sel.Add(r)
		}
	}

	return t.Where(sel), nil
}

// SampleX returns round(fraction*RowCount) rows chosen uniformly without
// replacement, in their original order. fraction must lie in [0, 1].
func (t *Table) SampleX(fraction float64, rng *rand.Rand) (*Table, error) {
	if !(fraction >= 0 && fraction <= 1) {
		return nil, fmt.Errorf("%w: fraction %v outside [0, 1]", errs.ErrInvalidSampleSize, fraction)
	}

	return t.SampleN(int(math.Round(fraction*float64(t.RowCount()))), rng)
}

// Copy returns a deep copy.
func (t *Table) Copy() *Table {
	return t.derive(column.Column.Copy)
}

// EmptyCopy returns a table with the same schema and no rows.
func (t *Table) EmptyCopy() *Table {
	return t.derive(column.Column.EmptyCopy)
}

// Append adds the rows of other, whose columns must match t by position,
// name and type. On error t is unchanged.
func (t *Table) Append(other *Table) error {
	if len(other.columns) != len(t.columns) {
		return fmt.Errorf("%w: table %q has %d columns, %q has %d",
			errs.ErrTypeMismatch, other.name, len(other.columns), t.name, len(t.columns))
	}
	for i, c := range t.columns {
		o := other.columns[i]
		if !strings.EqualFold(c.Name(), o.Name()) || c.Type() != o.Type() {
			return fmt.Errorf("%w: column %d is %s %q in %q but %s %q in %q",
				errs.ErrTypeMismatch, i, c.Type(), c.Name(), t.name, o.Type(), o.Name(), other.name)
		}
	}

	for i, c := range t.columns {
		o := other.columns[i]
		for row := range o.Len() {
			if err := c.AppendFrom(o, row); err != nil {
				return err
			}
		}
	}

	return nil
}

// MissingCounts returns a one-row-per-column table of missing cell counts.
func (t *Table) MissingCounts() *Table {
	names := column.NewText("Column")
	counts := column.NewLong("Missing")
	for _, c := range t.columns {
		names.Append(c.Name())
		counts.Append(int64(c.CountMissing()))
	}
	out, _ := New(t.name+" missing values", names, counts)

	return out
}

// Structure returns a one-row-per-column table describing t's schema.
func (t *Table) Structure() *Table {
	index := column.NewInt("Index")
	names := column.NewText("Column Name")
	types := column.NewString("Column Type")
	for i, c := range t.columns {
		index.Append(int32(i)) //nolint:gosec
		names.Append(c.Name())
		types.Append(c.Type().String())
	}
	out, _ := New(t.name+" structure", index, names, types)

	return out
}

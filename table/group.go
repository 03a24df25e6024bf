package table

import (
	"strings"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/internal/groupkey"
	"github.com/arloliu/coltab/internal/pool"
)

// Slice is the set of rows of a TableGroup that share one key combination.
type Slice struct {
	group *TableGroup
	rows  []int
}

// Rows returns the source row indices of the slice in ascending order.
// The slice must not be modified.
func (s *Slice) Rows() []int { return s.rows }

// RowCount returns the number of rows in the slice.
func (s *Slice) RowCount() int { return len(s.rows) }

// Key returns the display form of the slice's grouping values.
func (s *Slice) Key() []string {
	key := make([]string, len(s.group.keyCols))
	if len(s.rows) == 0 {
		return key
	}
	for i, c := range s.group.keyCols {
		key[i] = c.String(s.rows[0])
	}

	return key
}

// Name joins the grouping values with " | ".
func (s *Slice) Name() string {
	return strings.Join(s.Key(), " | ")
}

// Table materializes the slice as a table with the source's column types.
func (s *Slice) Table() *Table {
	t := s.group.source.Rows(s.rows)
	if len(s.group.keyCols) > 0 {
		t.SetName(s.Name())
	}

	return t
}

// TableGroup partitions the rows of a table by the distinct combinations of
// values in its grouping columns.
type TableGroup struct {
	source  *Table
	keyCols []column.Column
	slices  []*Slice
}

// SplitOn groups the rows of t by the named columns.
//
// Slices are ordered by the first appearance of their key and list their rows
// in original order. Missing values form their own group. Without grouping
// columns the result holds one slice of every row.
func (t *Table) SplitOn(names ...string) (*TableGroup, error) {
	g := &TableGroup{source: t, keyCols: make([]column.Column, 0, len(names))}
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		g.keyCols = append(g.keyCols, c)
	}

	rows := t.RowCount()
	if len(g.keyCols) == 0 {
		all := make([]int, rows)
		for i := range all {
			all[i] = i
		}
		g.slices = []*Slice{{group: g, rows: all}}

		return g, nil
	}

	index := groupkey.New()
	buf := pool.GetKeyBuffer()
	defer pool.PutKeyBuffer(buf)
	for row := range rows {
		key := buf.B[:0]
		for _, c := range g.keyCols {
			key = c.AppendKey(key, row)
		}
		buf.B = key

		id, created := index.Lookup(key)
		if created {
			g.slices = append(g.slices, &Slice{group: g})
		}
		g.slices[id].rows = append(g.slices[id].rows, row)
	}

	return g, nil
}

// Source returns the grouped table.
func (g *TableGroup) Source() *Table { return g.source }

// Len returns the number of slices.
func (g *TableGroup) Len() int { return len(g.slices) }

// Slices returns the slices in first-appearance order.
func (g *TableGroup) Slices() []*Slice { return g.slices }

// GroupColumns returns the names of the grouping columns.
func (g *TableGroup) GroupColumns() []string {
	names := make([]string, len(g.keyCols))
	for i, c := range g.keyCols {
		names[i] = c.Name()
	}

	return names
}

// AsTables materializes every slice.
func (g *TableGroup) AsTables() []*Table {
	out := make([]*Table, len(g.slices))
	for i, s := range g.slices {
		out[i] = s.Table()
	}

	return out
}

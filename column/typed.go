package column

import (
	"fmt"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/selection"
)

// Typed is a column of T whose behaviour is supplied by a Kind.
type Typed[T comparable] struct {
	name string
	kind *Kind[T]
	data []T
}

var (
	_ Valued[int32]  = (*Typed[int32])(nil)
	_ Numeric        = (*Typed[float64])(nil)
	_ Valued[string] = (*StringColumn)(nil)
)

func newTyped[T comparable](name string, kind *Kind[T], values []T) *Typed[T] {
	data := make([]T, len(values))
	copy(data, values)

	return &Typed[T]{name: name, kind: kind, data: data}
}

// NewTyped creates a column of an arbitrary kind with the given capacity.
func NewTyped[T comparable](name string, kind *Kind[T], capacity int) *Typed[T] {
	return &Typed[T]{name: name, kind: kind, data: make([]T, 0, capacity)}
}

// FromValues creates a column of kind that takes ownership of values.
func FromValues[T comparable](name string, kind *Kind[T], values []T) *Typed[T] {
	return &Typed[T]{name: name, kind: kind, data: values}
}

// Kind returns the column's kind.
func (c *Typed[T]) Kind() *Kind[T] { return c.kind }

func (c *Typed[T]) Name() string            { return c.name }
func (c *Typed[T]) SetName(name string)     { c.name = name }
func (c *Typed[T]) Type() format.ColumnType { return c.kind.Type }
func (c *Typed[T]) Len() int                { return len(c.data) }

// Get returns cell i, which may be the missing sentinel.
func (c *Typed[T]) Get(i int) T { return c.data[i] }

// Set overwrites cell i.
func (c *Typed[T]) Set(i int, v T) { c.data[i] = v }

// Append appends v.
func (c *Typed[T]) Append(v T) { c.data = append(c.data, v) }

// Values returns the backing slice. It must not be modified.
func (c *Typed[T]) Values() []T { return c.data }

func (c *Typed[T]) IsMissingAt(i int) bool {
	return c.kind.IsMissing(c.data[i])
}

func (c *Typed[T]) IsMissing() *selection.Selection {
	sel := selection.New()
	for i, v := range c.data {
		if c.kind.IsMissing(v) {
			sel.Add(i)
		}
	}

	return sel
}

func (c *Typed[T]) IsNotMissing() *selection.Selection {
	sel := selection.New()
	for i, v := range c.data {
		if !c.kind.IsMissing(v) {
			sel.Add(i)
		}
	}

	return sel
}

func (c *Typed[T]) CountMissing() int {
	n := 0
	for _, v := range c.data {
		if c.kind.IsMissing(v) {
			n++
		}
	}

	return n
}

func (c *Typed[T]) AppendMissing() {
	c.data = append(c.data, c.kind.Missing)
}

func (c *Typed[T]) AppendCell(raw string) error {
	if IsMissingToken(raw) {
		c.AppendMissing()
		return nil
	}

	v, err := c.kind.Parse(raw)
	if err != nil {
		return &errs.CellError{Row: len(c.data), Column: c.name, Value: raw, Err: err}
	}
	c.data = append(c.data, v)

	return nil
}

func (c *Typed[T]) AppendFrom(src Column, row int) error {
	s, ok := src.(*Typed[T])
	if !ok || s.kind.Type != c.kind.Type {
		return fmt.Errorf("%w: cannot append %s cell of %q to %s column %q",
			errs.ErrTypeMismatch, src.Type(), src.Name(), c.kind.Type, c.name)
	}
	c.data = append(c.data, s.data[row])

	return nil
}

func (c *Typed[T]) String(i int) string {
	v := c.data[i]
	if c.kind.IsMissing(v) {
		return ""
	}

	return c.kind.Format(v)
}

func (c *Typed[T]) CompareRows(i, j int) int {
	a, b := c.data[i], c.data[j]
	am, bm := c.kind.IsMissing(a), c.kind.IsMissing(b)
	switch {
	case am && bm:
		return 0
	case am:
		return -1
	case bm:
		return 1
	}

	return c.kind.Compare(a, b)
}

func (c *Typed[T]) AppendKey(buf []byte, i int) []byte {
	v := c.data[i]
	if c.kind.IsMissing(v) {
		v = c.kind.Missing
	}

	return c.kind.Key(buf, v)
}

func (c *Typed[T]) Where(sel *selection.Selection) Column {
	out := NewTyped(c.name, c.kind, sel.Size())
	for i := range sel.All() {
		out.data = append(out.data, c.data[i])
	}

	return out
}

func (c *Typed[T]) Take(rows []int) Column {
	out := NewTyped(c.name, c.kind, len(rows))
	for _, i := range rows {
		out.data = append(out.data, c.data[i])
	}

	return out
}

func (c *Typed[T]) Copy() Column {
	return newTyped(c.name, c.kind, c.data)
}

func (c *Typed[T]) EmptyCopy() Column {
	return NewTyped(c.name, c.kind, 0)
}

func (c *Typed[T]) Unique() Column {
	out := NewTyped(c.name, c.kind, 0)
	seen := make(map[T]struct{})
	sawMissing := false
	for _, v := range c.data {
		if c.kind.IsMissing(v) {
			if !sawMissing {
				sawMissing = true
				out.AppendMissing()
			}

			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out.data = append(out.data, v)
	}

	return out
}

// Float64At returns cell i as float64, or NaN when missing.
// It panics for non-numeric kinds.
func (c *Typed[T]) Float64At(i int) float64 {
	v := c.data[i]
	if c.kind.IsMissing(v) {
		return nan
	}

	return c.kind.ToFloat(v)
}

// Int64At returns cell i as int64. It panics for non-numeric kinds.
func (c *Typed[T]) Int64At(i int) int64 {
	return c.kind.ToInt(c.data[i])
}

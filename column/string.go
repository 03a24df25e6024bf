package column

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/selection"
)

// MissingCode is the dictionary code of a missing String cell.
const MissingCode int32 = -1

// StringColumn is a dictionary-encoded column of short, repetitive strings.
//
// Each distinct value is stored once; rows hold an int32 code into the
// dictionary. The empty string is the missing value and is stored as
// MissingCode rather than a dictionary entry.
type StringColumn struct {
	name   string
	codes  []int32
	dict   []string
	lookup map[string]int32
}

// NewString creates a String column.
func NewString(name string, values ...string) *StringColumn {
	c := &StringColumn{
		name:   name,
		codes:  make([]int32, 0, len(values)),
		lookup: make(map[string]int32),
	}
	for _, v := range values {
		c.Append(v)
	}

	return c
}

// NewStringFromDictionary rebuilds a String column from its encoded form.
// Every code must be MissingCode or a valid dictionary index, and dictionary
// entries must be distinct and non-empty.
func NewStringFromDictionary(name string, dict []string, codes []int32) (*StringColumn, error) {
	lookup := make(map[string]int32, len(dict))
	for i, v := range dict {
		if v == "" {
			return nil, fmt.Errorf("%w: empty dictionary entry %d in column %q", errs.ErrInvalidMetadata, i, name)
		}
		if _, dup := lookup[v]; dup {
			return nil, fmt.Errorf("%w: duplicate dictionary entry %q in column %q", errs.ErrInvalidMetadata, v, name)
		}
		lookup[v] = int32(i) //nolint:gosec
	}
	for row, code := range codes {
		if code != MissingCode && (code < 0 || int(code) >= len(dict)) {
			return nil, fmt.Errorf("%w: row %d of column %q has code %d outside dictionary of %d",
				errs.ErrInvalidMetadata, row, name, code, len(dict))
		}
	}

	return &StringColumn{name: name, codes: codes, dict: dict, lookup: lookup}, nil
}

func (c *StringColumn) Name() string            { return c.name }
func (c *StringColumn) SetName(name string)     { c.name = name }
func (c *StringColumn) Type() format.ColumnType { return format.TypeString }
func (c *StringColumn) Len() int                { return len(c.codes) }

// Codes returns the per-row dictionary codes. The slice must not be modified.
func (c *StringColumn) Codes() []int32 { return c.codes }

// Dictionary returns the distinct values in code order. The slice must not be modified.
func (c *StringColumn) Dictionary() []string { return c.dict }

func (c *StringColumn) encode(v string) int32 {
	if v == "" {
		return MissingCode
	}
	if code, ok := c.lookup[v]; ok {
		return code
	}
	code := int32(len(c.dict)) //nolint:gosec
	c.dict = append(c.dict, v)
	c.lookup[v] = code

	return code
}

func (c *StringColumn) decode(code int32) string {
	if code == MissingCode {
		return ""
	}

	return c.dict[code]
}

// Get returns cell i; missing cells return "".
func (c *StringColumn) Get(i int) string { return c.decode(c.codes[i]) }

// Set overwrites cell i.
func (c *StringColumn) Set(i int, v string) { c.codes[i] = c.encode(v) }

// Append appends v.
func (c *StringColumn) Append(v string) { c.codes = append(c.codes, c.encode(v)) }

// Values decodes every cell into a new slice.
func (c *StringColumn) Values() []string {
	out := make([]string, len(c.codes))
	for i, code := range c.codes {
		out[i] = c.decode(code)
	}

	return out
}

func (c *StringColumn) IsMissingAt(i int) bool { return c.codes[i] == MissingCode }

func (c *StringColumn) IsMissing() *selection.Selection {
	sel := selection.New()
	for i, code := range c.codes {
		if code == MissingCode {
			sel.Add(i)
		}
	}

	return sel
}

func (c *StringColumn) IsNotMissing() *selection.Selection {
	sel := selection.New()
	for i, code := range c.codes {
		if code != MissingCode {
			sel.Add(i)
		}
	}

	return sel
}

func (c *StringColumn) CountMissing() int {
	n := 0
	for _, code := range c.codes {
		if code == MissingCode {
			n++
		}
	}

	return n
}

func (c *StringColumn) AppendMissing() { c.codes = append(c.codes, MissingCode) }

func (c *StringColumn) AppendCell(raw string) error {
	if IsMissingToken(raw) {
		c.AppendMissing()
		return nil
	}
	c.Append(raw)

	return nil
}

func (c *StringColumn) AppendFrom(src Column, row int) error {
	s, ok := src.(*StringColumn)
	if !ok {
		return fmt.Errorf("%w: cannot append %s cell of %q to String column %q",
			errs.ErrTypeMismatch, src.Type(), src.Name(), c.name)
	}
	c.Append(s.Get(row))

	return nil
}

func (c *StringColumn) String(i int) string { return c.Get(i) }

func (c *StringColumn) CompareRows(i, j int) int {
	a, b := c.codes[i], c.codes[j]
	switch {
	case a == b:
		return 0
	case a == MissingCode:
		return -1
	case b == MissingCode:
		return 1
	}

	return strings.Compare(c.dict[a], c.dict[b])
}

func (c *StringColumn) AppendKey(buf []byte, i int) []byte {
	return stringKey(buf, c.Get(i))
}

// Where returns the selected rows with a dictionary holding only the values they use.
func (c *StringColumn) Where(sel *selection.Selection) Column {
	out := &StringColumn{
		name:   c.name,
		codes:  make([]int32, 0, sel.Size()),
		lookup: make(map[string]int32),
	}
	for i := range sel.All() {
		out.Append(c.Get(i))
	}

	return out
}

// Take returns the given rows, sharing no state with c.
func (c *StringColumn) Take(rows []int) Column {
	out := &StringColumn{
		name:   c.name,
		codes:  make([]int32, 0, len(rows)),
		lookup: make(map[string]int32),
	}
	for _, i := range rows {
		out.Append(c.Get(i))
	}

	return out
}

func (c *StringColumn) Copy() Column {
	return &StringColumn{
		name:   c.name,
		codes:  slices.Clone(c.codes),
		dict:   slices.Clone(c.dict),
		lookup: maps.Clone(c.lookup),
	}
}

func (c *StringColumn) EmptyCopy() Column {
	return NewString(c.name)
}

func (c *StringColumn) Unique() Column {
	out := NewString(c.name)
	seen := make(map[int32]struct{})
	for _, code := range c.codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out.Append(c.decode(code))
	}

	return out
}

// CountUnique returns the number of distinct present values.
func (c *StringColumn) CountUnique() int {
	seen := make(map[int32]struct{})
	for _, code := range c.codes {
		if code != MissingCode {
			seen[code] = struct{}{}
		}
	}

	return len(seen)
}

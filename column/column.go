package column

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/selection"
	"github.com/arloliu/coltab/temporal"
)

// Column is the type-independent view of a column.
type Column interface {
	// Name returns the column name.
	Name() string
	// SetName renames the column.
	SetName(name string)
	// Type returns the column type tag.
	Type() format.ColumnType
	// Len returns the number of cells.
	Len() int

	// IsMissingAt reports whether cell i holds the missing sentinel.
	IsMissingAt(i int) bool
	// IsMissing returns the rows holding a missing value.
	IsMissing() *selection.Selection
	// IsNotMissing returns the rows holding a present value.
	IsNotMissing() *selection.Selection
	// CountMissing returns the number of missing cells.
	CountMissing() int

	// AppendMissing appends one missing cell.
	AppendMissing()
	// AppendCell parses raw and appends the result. Recognized missing
	// tokens append a missing cell. Malformed input returns *errs.CellError
	// and leaves the column unchanged.
	AppendCell(raw string) error
	// AppendFrom appends cell row of src, which must have the same type.
	AppendFrom(src Column, row int) error

	// String returns the display form of cell i; missing cells render as "".
	String(i int) string
	// CompareRows orders cell i against cell j; missing cells sort first.
	CompareRows(i, j int) int
	// AppendKey appends a canonical byte encoding of cell i to buf. Equal
	// cells, including any two missing cells, produce equal bytes.
	AppendKey(buf []byte, i int) []byte

	// Where returns a new column holding the cells at the selected rows.
	Where(sel *selection.Selection) Column
	// Take returns a new column holding the cells at rows, in that order.
	// Rows may repeat.
	Take(rows []int) Column
	// Copy returns a deep copy.
	Copy() Column
	// EmptyCopy returns an empty column with the same name and type.
	EmptyCopy() Column
	// Unique returns the distinct cells in first-appearance order.
	Unique() Column
}

// Valued is a column whose cells can be read and written as T.
type Valued[T any] interface {
	Column
	Get(i int) T
	Set(i int, v T)
	Append(v T)
	// Values returns the cells in row order. The slice must not be modified.
	Values() []T
}

// Numeric is a column with a numeric view of its cells.
type Numeric interface {
	Column
	// Float64At returns cell i as float64, or NaN when missing.
	Float64At(i int) float64
	// Int64At returns cell i as int64. The result is meaningless for
	// missing cells and truncated for floating-point columns.
	Int64At(i int) int64
}

// AsNumeric returns the numeric view of c, or errs.ErrTypeMismatch when c is
// not a Short, Int, Long, Float or Double column.
func AsNumeric(c Column) (Numeric, error) {
	if !c.Type().IsNumeric() {
		return nil, fmt.Errorf("%w: column %q is %s, not numeric", errs.ErrTypeMismatch, c.Name(), c.Type())
	}
	n, ok := c.(Numeric)
	if !ok {
		return nil, fmt.Errorf("%w: column %q has no numeric view", errs.ErrTypeMismatch, c.Name())
	}

	return n, nil
}

// As returns c as a *Typed[T], or errs.ErrTypeMismatch.
func As[T comparable](c Column) (*Typed[T], error) {
	t, ok := c.(*Typed[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: column %q is %s, not %T", errs.ErrTypeMismatch, c.Name(), c.Type(), zero)
	}

	return t, nil
}

// AsString returns c as a *StringColumn, or errs.ErrTypeMismatch.
func AsString(c Column) (*StringColumn, error) {
	s, ok := c.(*StringColumn)
	if !ok {
		return nil, fmt.Errorf("%w: column %q is %s, not String", errs.ErrTypeMismatch, c.Name(), c.Type())
	}

	return s, nil
}

// NewSized creates a column of the given type holding size missing cells.
func NewSized(name string, typ format.ColumnType, size int) (Column, error) {
	var c Column
	switch typ {
	case format.TypeShort:
		c = NewShort(name)
	case format.TypeInt:
		c = NewInt(name)
	case format.TypeLong:
		c = NewLong(name)
	case format.TypeFloat:
		c = NewFloat(name)
	case format.TypeDouble:
		c = NewDouble(name)
	case format.TypeBoolean:
		c = NewBool(name)
	case format.TypeString:
		c = NewString(name)
	case format.TypeText:
		c = NewText(name)
	case format.TypeDate:
		c = NewDate(name)
	case format.TypeTime:
		c = NewTime(name)
	case format.TypeDateTime:
		c = NewDateTime(name)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, typ)
	}
	for range size {
		c.AppendMissing()
	}

	return c, nil
}

// NewShort creates a Short column.
func NewShort(name string, values ...int16) *Typed[int16] {
	return newTyped(name, ShortKind, values)
}

// NewInt creates an Int column.
func NewInt(name string, values ...int32) *Typed[int32] {
	return newTyped(name, IntKind, values)
}

// NewLong creates a Long column.
func NewLong(name string, values ...int64) *Typed[int64] {
	return newTyped(name, LongKind, values)
}

// NewFloat creates a Float column.
func NewFloat(name string, values ...float32) *Typed[float32] {
	return newTyped(name, FloatKind, values)
}

// NewDouble creates a Double column.
func NewDouble(name string, values ...float64) *Typed[float64] {
	return newTyped(name, DoubleKind, values)
}

// NewBool creates a Boolean column.
func NewBool(name string, values ...bool) *Typed[int8] {
	c := newTyped[int8](name, BoolKind, nil)
	for _, v := range values {
		c.Append(BoolValue(v))
	}

	return c
}

// NewText creates a Text column: one independent string per row.
func NewText(name string, values ...string) *Typed[string] {
	return newTyped(name, TextKind, values)
}

// NewDate creates a Date column.
func NewDate(name string, values ...temporal.Date) *Typed[temporal.Date] {
	return newTyped(name, DateKind, values)
}

// NewTime creates a Time column.
func NewTime(name string, values ...temporal.Time) *Typed[temporal.Time] {
	return newTyped(name, TimeKind, values)
}

// NewDateTime creates a DateTime column.
func NewDateTime(name string, values ...temporal.DateTime) *Typed[temporal.DateTime] {
	return newTyped(name, DateTimeKind, values)
}

// missingTokens are the raw cell spellings parsed as a missing value.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"*":    {},
}

// IsMissingToken reports whether a raw cell denotes a missing value.
func IsMissingToken(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

var nan = math.NaN()

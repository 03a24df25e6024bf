package filter

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/selection"
	"github.com/arloliu/coltab/temporal"
)

// Ref is a deferred reference to a column whose cells read as T.
type Ref[T comparable] struct {
	name    string
	resolve resolver[T]
}

// Name returns the referenced column name.
func (r Ref[T]) Name() string { return r.name }

func (r Ref[T]) eval(p predicate[T]) Filter {
	return func(src Source) (*selection.Selection, error) {
		return evaluate(src, r.name, r.resolve, p)
	}
}

// IsMissing matches rows whose cell is missing.
func (r Ref[T]) IsMissing() Filter { return r.eval(predicate[T]{op: opIsMissing}) }

// IsNotMissing matches rows whose cell is present.
func (r Ref[T]) IsNotMissing() Filter { return r.eval(predicate[T]{op: opIsNotMissing}) }

// Matches matches present cells for which fn returns true.
func (r Ref[T]) Matches(fn func(T) bool) Filter {
	return r.eval(predicate[T]{op: opMatches, fn: fn})
}

// Equal matches cells equal to v.
func (r Ref[T]) Equal(v T) Filter { return r.eval(predicate[T]{op: opEqual, lo: v}) }

// NotEqual matches present cells different from v.
func (r Ref[T]) NotEqual(v T) Filter { return r.eval(predicate[T]{op: opNotEqual, lo: v}) }

// Less matches cells ordered before v.
func (r Ref[T]) Less(v T) Filter { return r.eval(predicate[T]{op: opLess, lo: v}) }

// LessOrEqual matches cells not ordered after v.
func (r Ref[T]) LessOrEqual(v T) Filter { return r.eval(predicate[T]{op: opLessOrEqual, lo: v}) }

// Greater matches cells ordered after v.
func (r Ref[T]) Greater(v T) Filter { return r.eval(predicate[T]{op: opGreater, lo: v}) }

// GreaterOrEqual matches cells not ordered before v.
func (r Ref[T]) GreaterOrEqual(v T) Filter {
	return r.eval(predicate[T]{op: opGreaterOrEqual, lo: v})
}

// Between matches cells in the closed range [lo, hi].
func (r Ref[T]) Between(lo, hi T) Filter {
	return r.eval(predicate[T]{op: opBetween, lo: lo, hi: hi})
}

// In matches cells equal to any of values.
func (r Ref[T]) In(values ...T) Filter {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return r.eval(predicate[T]{op: opIn, set: set})
}

// EqualColumn matches rows where this column equals the other column.
func (r Ref[T]) EqualColumn(other string) Filter {
	return r.eval(predicate[T]{op: opEqualColumn, other: other})
}

// NotEqualColumn matches rows where this column differs from the other column.
func (r Ref[T]) NotEqualColumn(other string) Filter {
	return r.eval(predicate[T]{op: opNotEqualColumn, other: other})
}

// LessColumn matches rows where this column is ordered before the other column.
func (r Ref[T]) LessColumn(other string) Filter {
	return r.eval(predicate[T]{op: opLessColumn, other: other})
}

// GreaterColumn matches rows where this column is ordered after the other column.
func (r Ref[T]) GreaterColumn(other string) Filter {
	return r.eval(predicate[T]{op: opGreaterColumn, other: other})
}

func typedResolver[T comparable](want format.ColumnType) resolver[T] {
	return func(c column.Column) (view[T], error) {
		t, ok := c.(*column.Typed[T])
		if !ok || t.Type() != want {
			return view[T]{}, mismatch(c, want.String())
		}
		kind := t.Kind()
		vals := t.Values()

		return view[T]{
			n:       len(vals),
			get:     func(i int) T { return vals[i] },
			missing: func(i int) bool { return kind.IsMissing(vals[i]) },
			compare: kind.Compare,
		}, nil
	}
}

func mismatch(c column.Column, want string) error {
	return fmt.Errorf("%w: column %q is %s, expected %s", errs.ErrTypeMismatch, c.Name(), c.Type(), want)
}

func ref[T comparable](name string, want format.ColumnType) Ref[T] {
	return Ref[T]{name: name, resolve: typedResolver[T](want)}
}

// NumRef references a numeric column.
type NumRef[T int16 | int32 | int64 | float32 | float64] struct {
	Ref[T]
}

// Short references a Short column.
func Short(name string) NumRef[int16] { return NumRef[int16]{ref[int16](name, format.TypeShort)} }

// Int references an Int column.
func Int(name string) NumRef[int32] { return NumRef[int32]{ref[int32](name, format.TypeInt)} }

// Long references a Long column.
func Long(name string) NumRef[int64] { return NumRef[int64]{ref[int64](name, format.TypeLong)} }

// Float references a Float column.
func Float(name string) NumRef[float32] { return NumRef[float32]{ref[float32](name, format.TypeFloat)} }

// Double references a Double column.
func Double(name string) NumRef[float64] {
	return NumRef[float64]{ref[float64](name, format.TypeDouble)}
}

// Number references any numeric column through its float64 view.
func Number(name string) NumRef[float64] {
	return NumRef[float64]{Ref[float64]{name: name, resolve: func(c column.Column) (view[float64], error) {
		n, err := column.AsNumeric(c)
		if err != nil {
			return view[float64]{}, err
		}

		return view[float64]{
			n:       n.Len(),
			get:     n.Float64At,
			missing: n.IsMissingAt,
			compare: cmp.Compare[float64],
		}, nil
	}}}
}

// IsPositive matches cells greater than zero.
func (r NumRef[T]) IsPositive() Filter { return r.Matches(func(v T) bool { return v > 0 }) }

// IsNegative matches cells less than zero.
func (r NumRef[T]) IsNegative() Filter { return r.Matches(func(v T) bool { return v < 0 }) }

// IsZero matches cells equal to zero.
func (r NumRef[T]) IsZero() Filter { return r.Matches(func(v T) bool { return v == 0 }) }

// IsNonNegative matches cells greater than or equal to zero.
func (r NumRef[T]) IsNonNegative() Filter { return r.Matches(func(v T) bool { return v >= 0 }) }

// TextRef references a String or Text column.
type TextRef struct {
	Ref[string]
}

// Text references a String or Text column.
func Text(name string) TextRef {
	return TextRef{Ref[string]{name: name, resolve: resolveText}}
}

func resolveText(c column.Column) (view[string], error) {
	switch t := c.(type) {
	case *column.StringColumn:
		return view[string]{
			n:       t.Len(),
			get:     t.Get,
			missing: t.IsMissingAt,
			compare: strings.Compare,
		}, nil
	case *column.Typed[string]:
		vals := t.Values()
		return view[string]{
			n:       len(vals),
			get:     func(i int) string { return vals[i] },
			missing: func(i int) bool { return vals[i] == "" },
			compare: strings.Compare,
		}, nil
	}

	return view[string]{}, mismatch(c, "String or Text")
}

// IsEmpty matches missing cells and cells holding only white space.
func (r TextRef) IsEmpty() Filter {
	return r.eval(predicate[string]{op: opMatchesOrMissing, fn: func(s string) bool {
		return strings.TrimSpace(s) == ""
	}})
}

// IsUpperCase matches cells unchanged by upper-casing.
func (r TextRef) IsUpperCase() Filter {
	return r.Matches(func(s string) bool { return strings.ToUpper(s) == s })
}

// IsLowerCase matches cells unchanged by lower-casing.
func (r TextRef) IsLowerCase() Filter {
	return r.Matches(func(s string) bool { return strings.ToLower(s) == s })
}

// IsAlpha matches cells made only of letters.
func (r TextRef) IsAlpha() Filter {
	return r.Matches(func(s string) bool { return allRunes(s, unicode.IsLetter) })
}

// IsNumeric matches cells made only of decimal digits.
func (r TextRef) IsNumeric() Filter {
	return r.Matches(func(s string) bool { return allRunes(s, unicode.IsDigit) })
}

func allRunes(s string, fn func(rune) bool) bool {
	for _, c := range s {
		if !fn(c) {
			return false
		}
	}

	return true
}

// StartsWith matches cells with the given prefix.
func (r TextRef) StartsWith(prefix string) Filter {
	return r.Matches(func(s string) bool { return strings.HasPrefix(s, prefix) })
}

// EndsWith matches cells with the given suffix.
func (r TextRef) EndsWith(suffix string) Filter {
	return r.Matches(func(s string) bool { return strings.HasSuffix(s, suffix) })
}

// Contains matches cells containing substr.
func (r TextRef) Contains(substr string) Filter {
	return r.Matches(func(s string) bool { return strings.Contains(s, substr) })
}

// EqualFold matches cells equal to v under Unicode case folding.
func (r TextRef) EqualFold(v string) Filter {
	return r.Matches(func(s string) bool { return strings.EqualFold(s, v) })
}

// MatchesRegex matches cells containing a match of pattern. An invalid
// pattern is reported when the filter is applied.
func (r TextRef) MatchesRegex(pattern string) Filter {
	compile := sync.OnceValues(func() (*regexp.Regexp, error) { return regexp.Compile(pattern) })

	return func(src Source) (*selection.Selection, error) {
		re, err := compile()
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for column %q: %w", r.name, err)
		}

		return r.Matches(re.MatchString)(src)
	}
}

// BoolRef references a Boolean column.
type BoolRef struct {
	r Ref[int8]
}

// Bool references a Boolean column.
func Bool(name string) BoolRef { return BoolRef{ref[int8](name, format.TypeBoolean)} }

// IsTrue matches true cells.
func (b BoolRef) IsTrue() Filter { return b.r.Equal(column.BoolTrue) }

// IsFalse matches false cells.
func (b BoolRef) IsFalse() Filter { return b.r.Equal(column.BoolFalse) }

// Equal matches cells equal to v.
func (b BoolRef) Equal(v bool) Filter { return b.r.Equal(column.BoolValue(v)) }

// IsMissing matches missing cells.
func (b BoolRef) IsMissing() Filter { return b.r.IsMissing() }

// IsNotMissing matches present cells.
func (b BoolRef) IsNotMissing() Filter { return b.r.IsNotMissing() }

// EqualColumn matches rows where both Boolean columns hold the same value.
func (b BoolRef) EqualColumn(other string) Filter { return b.r.EqualColumn(other) }

// DateRef references a Date column.
type DateRef struct {
	Ref[temporal.Date]
}

// Date references a Date column.
func Date(name string) DateRef {
	return DateRef{ref[temporal.Date](name, format.TypeDate)}
}

// IsWeekend matches Saturdays and Sundays.
func (r DateRef) IsWeekend() Filter {
	return r.Matches(func(d temporal.Date) bool {
		wd := d.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	})
}

// IsWeekday matches Monday through Friday.
func (r DateRef) IsWeekday() Filter {
	return r.Matches(func(d temporal.Date) bool {
		wd := d.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	})
}

// IsInYear matches dates in the given year.
func (r DateRef) IsInYear(year int) Filter {
	return r.Matches(func(d temporal.Date) bool { return d.Year() == year })
}

// IsInMonth matches dates in the given month of any year.
func (r DateRef) IsInMonth(month time.Month) Filter {
	return r.Matches(func(d temporal.Date) bool { return d.Month() == month })
}

// Time references a Time column.
func Time(name string) Ref[temporal.Time] {
	return ref[temporal.Time](name, format.TypeTime)
}

// DateTime references a DateTime column.
func DateTime(name string) Ref[temporal.DateTime] {
	return ref[temporal.DateTime](name, format.TypeDateTime)
}

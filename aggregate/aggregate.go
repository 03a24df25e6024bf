// Package aggregate defines the named reducers used by table summaries.
//
// A Reducer collapses a group of rows of one column into a single cell. The
// output type depends on the reducer and the input type:
//
//   - Sum of Short or Int produces Long. Sum of Long, Float or Double
//     produces Double, so a Long total never wraps.
//   - Count, CountMissing and CountUnique produce Long.
//   - First and Last keep the input type.
//   - Every other reducer produces Double.
//
// Numeric reducers ignore missing cells. When a group holds no present
// value they produce the missing value of their output type, while the
// count reducers produce 0.
package aggregate

import (
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/internal/pool"
)

// Reducer collapses rows of a column into one value.
type Reducer struct {
	name    string
	numeric bool
	output  func(in format.ColumnType) format.ColumnType
	reduce  func(in column.Column, rows []int, out column.Column) error
}

// Name returns the reducer name used in output column headers.
func (r Reducer) Name() string { return r.name }

// String implements fmt.Stringer.
func (r Reducer) String() string { return r.name }

// ColumnName returns the summary column header for reducing target: "Sum [IQ]".
func (r Reducer) ColumnName(target string) string {
	return fmt.Sprintf("%s [%s]", r.name, target)
}

// OutputType returns the type of cells produced for an input of type in.
// Numeric reducers reject non-numeric input with errs.ErrTypeMismatch.
func (r Reducer) OutputType(in format.ColumnType) (format.ColumnType, error) {
	if r.numeric && !in.IsNumeric() {
		return 0, fmt.Errorf("%w: %s needs a numeric column, got %s", errs.ErrTypeMismatch, r.name, in)
	}

	return r.output(in), nil
}

// NewOutput creates the empty output column for reducing in.
func (r Reducer) NewOutput(in column.Column) (column.Column, error) {
	typ, err := r.OutputType(in.Type())
	if err != nil {
		return nil, err
	}

	return column.NewSized(r.ColumnName(in.Name()), typ, 0)
}

// ReduceInto appends the reduction of in over rows to out, which must have
// been created by NewOutput for in.
func (r Reducer) ReduceInto(in column.Column, rows []int, out column.Column) error {
	if r.numeric && !in.Type().IsNumeric() {
		return fmt.Errorf("%w: %s needs a numeric column, got %s", errs.ErrTypeMismatch, r.name, in.Type())
	}

	return r.reduce(in, rows, out)
}

// Reduce reduces every row of in to a one-cell column.
func (r Reducer) Reduce(in column.Column) (column.Column, error) {
	out, err := r.NewOutput(in)
	if err != nil {
		return nil, err
	}
	rows, release := pool.Ints.Get(in.Len())
	defer release()
	for i := range in.Len() {
		rows = append(rows, i)
	}
	if err := r.reduce(in, rows, out); err != nil {
		return nil, err
	}

	return out, nil
}

func double(format.ColumnType) format.ColumnType { return format.TypeDouble }
func long(format.ColumnType) format.ColumnType   { return format.TypeLong }
func same(in format.ColumnType) format.ColumnType { return in }

func appendDouble(out column.Column, v float64) error {
	d, err := column.As[float64](out)
	if err != nil {
		return err
	}
	d.Append(v)

	return nil
}

func appendLong(out column.Column, v int64) error {
	l, err := column.As[int64](out)
	if err != nil {
		return err
	}
	l.Append(v)

	return nil
}

// presentValues gathers the present cells of rows as float64 into a pooled slice.
func presentValues(in column.Column, rows []int) ([]float64, func(), error) {
	n, err := column.AsNumeric(in)
	if err != nil {
		return nil, nil, err
	}
	vals, release := pool.Float64s.Get(len(rows))
	for _, row := range rows {
		if !n.IsMissingAt(row) {
			vals = append(vals, n.Float64At(row))
		}
	}

	return vals, release, nil
}

// floatReducer builds a Double-valued numeric reducer; fn sees at least one value.
// An fn error yields a missing cell.
func floatReducer(name string, fn func(vals stats.Float64Data) (float64, error)) Reducer {
	return Reducer{
		name:    name,
		numeric: true,
		output:  double,
		reduce: func(in column.Column, rows []int, out column.Column) error {
			vals, release, err := presentValues(in, rows)
			if err != nil {
				return err
			}
			defer release()
			if len(vals) == 0 {
				return appendDouble(out, math.NaN())
			}
			v, err := fn(vals)
			if err != nil {
				v = math.NaN()
			}

			return appendDouble(out, v)
		},
	}
}

func countReducer(name string, fn func(in column.Column, rows []int) int) Reducer {
	return Reducer{
		name:   name,
		output: long,
		reduce: func(in column.Column, rows []int, out column.Column) error {
			return appendLong(out, int64(fn(in, rows)))
		},
	}
}

// Sum adds the present values. Short and Int inputs are summed exactly into
// Long; 2^31 rows of MaxInt32 still fit in an int64. Long inputs are summed
// into Double.
var Sum = Reducer{
	name:    "Sum",
	numeric: true,
	output:  sumType,
	reduce: func(in column.Column, rows []int, out column.Column) error {
		n, err := column.AsNumeric(in)
		if err != nil {
			return err
		}
		if sumType(in.Type()) == format.TypeLong {
			var total int64
			present := false
			for _, row := range rows {
				if !n.IsMissingAt(row) {
					total += n.Int64At(row)
					present = true
				}
			}
			if !present {
				return appendLong(out, math.MinInt64)
			}

			return appendLong(out, total)
		}

		total := 0.0
		present := false
		for _, row := range rows {
			if !n.IsMissingAt(row) {
				total += n.Float64At(row)
				present = true
			}
		}
		if !present {
			return appendDouble(out, math.NaN())
		}

		return appendDouble(out, total)
	},
}

// Mean is the arithmetic mean.
var Mean = floatReducer("Mean", stats.Mean)

// Median is the middle value, or the mean of the two middle values.
var Median = floatReducer("Median", stats.Median)

// Min is the smallest present value.
var Min = floatReducer("Min", stats.Min)

// Max is the largest present value.
var Max = floatReducer("Max", stats.Max)

// Range is Max minus Min.
var Range = floatReducer("Range", func(vals stats.Float64Data) (float64, error) {
	lo, err := stats.Min(vals)
	if err != nil {
		return 0, err
	}
	hi, err := stats.Max(vals)
	if err != nil {
		return 0, err
	}

	return hi - lo, nil
})

// Variance is the sample variance. It is missing for fewer than two values.
var Variance = floatReducer("Variance", sample(stats.SampleVariance))

// StdDev is the sample standard deviation. It is missing for fewer than two values.
var StdDev = floatReducer("Std. Deviation", sample(stats.StandardDeviationSample))

// Product multiplies the present values.
var Product = floatReducer("Product", stats.Product)

// Count is the number of present values.
var Count = countReducer("Count", func(in column.Column, rows []int) int {
	n := 0
	for _, row := range rows {
		if !in.IsMissingAt(row) {
			n++
		}
	}

	return n
})

// CountMissing is the number of missing values.
var CountMissing = countReducer("Missing Values", func(in column.Column, rows []int) int {
	n := 0
	for _, row := range rows {
		if in.IsMissingAt(row) {
			n++
		}
	}

	return n
})

// CountUnique is the number of distinct present values.
var CountUnique = countReducer("Count Unique", func(in column.Column, rows []int) int {
	seen := make(map[string]struct{})
	var key []byte
	for _, row := range rows {
		if in.IsMissingAt(row) {
			continue
		}
		key = in.AppendKey(key[:0], row)
		seen[string(key)] = struct{}{}
	}

	return len(seen)
})

// First is the first present value, in the input type.
var First = Reducer{
	name:   "First",
	output: same,
	reduce: func(in column.Column, rows []int, out column.Column) error {
		for _, row := range rows {
			if !in.IsMissingAt(row) {
				return out.AppendFrom(in, row)
			}
		}
		out.AppendMissing()

		return nil
	},
}

// Last is the last present value, in the input type.
var Last = Reducer{
	name:   "Last",
	output: same,
	reduce: func(in column.Column, rows []int, out column.Column) error {
		for _, row := range slices.Backward(rows) {
			if !in.IsMissingAt(row) {
				return out.AppendFrom(in, row)
			}
		}
		out.AppendMissing()

		return nil
	},
}

func sumType(in format.ColumnType) format.ColumnType {
	if in == format.TypeShort || in == format.TypeInt {
		return format.TypeLong
	}

	return format.TypeDouble
}

// sample wraps a sample statistic so that fewer than two values are missing.
func sample(fn func(stats.Float64Data) (float64, error)) func(stats.Float64Data) (float64, error) {
	return func(vals stats.Float64Data) (float64, error) {
		if len(vals) < 2 {
			return math.NaN(), nil
		}

		return fn(vals)
	}
}

// All returns every predefined reducer.
func All() []Reducer {
	return []Reducer{Sum, Mean, Median, Count, CountMissing, CountUnique, Min, Max, Range, Variance, StdDev, Product, First, Last}
}

// ByName looks up a predefined reducer by its Name.
func ByName(name string) (Reducer, bool) {
	for _, r := range All() {
		if r.name == name {
			return r, true
		}
	}

	return Reducer{}, false
}

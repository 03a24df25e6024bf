package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/temporal"
)

func reduceDouble(t *testing.T, r Reducer, c column.Column) float64 {
	t.Helper()
	out, err := r.Reduce(c)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, out.Type())
	require.Equal(t, 1, out.Len())

	return out.(*column.Typed[float64]).Get(0)
}

func reduceLong(t *testing.T, r Reducer, c column.Column) int64 {
	t.Helper()
	out, err := r.Reduce(c)
	require.NoError(t, err)
	require.Equal(t, format.TypeLong, out.Type())

	return out.(*column.Typed[int64]).Get(0)
}

func TestReducers_Numeric(t *testing.T) {
	c := column.NewInt("IQ", 4, 8, math.MinInt32, 2, 6)

	require.Equal(t, int64(20), reduceLong(t, Sum, c))
	require.InDelta(t, 5.0, reduceDouble(t, Mean, c), 1e-12)
	require.InDelta(t, 5.0, reduceDouble(t, Median, c), 1e-12)
	require.InDelta(t, 2.0, reduceDouble(t, Min, c), 0)
	require.InDelta(t, 8.0, reduceDouble(t, Max, c), 0)
	require.InDelta(t, 6.0, reduceDouble(t, Range, c), 0)
	require.InDelta(t, 20.0/3.0, reduceDouble(t, Variance, c), 1e-12)
	require.InDelta(t, math.Sqrt(20.0/3.0), reduceDouble(t, StdDev, c), 1e-12)
	require.InDelta(t, 384.0, reduceDouble(t, Product, c), 0)
	require.Equal(t, int64(4), reduceLong(t, Count, c))
	require.Equal(t, int64(1), reduceLong(t, CountMissing, c))
	require.Equal(t, int64(4), reduceLong(t, CountUnique, c))
}

func TestSum_LongDoesNotWrap(t *testing.T) {
	t.Run("Total past MaxInt64", func(t *testing.T) {
		got := reduceDouble(t, Sum, column.NewLong("x", math.MaxInt64, 1))
		require.InDelta(t, float64(math.MaxInt64)+1, got, 0)
	})

	t.Run("Total would wrap negative", func(t *testing.T) {
		got := reduceDouble(t, Sum, column.NewLong("x", math.MaxInt64, 10))
		require.Positive(t, got)
		require.InEpsilon(t, 9.223372036854775817e18, got, 1e-12)
	})

	t.Run("Missing cells are skipped", func(t *testing.T) {
		require.InDelta(t, 7.0, reduceDouble(t, Sum, column.NewLong("x", 3, math.MinInt64, 4)), 0)
	})

	t.Run("Int stays exact in Long", func(t *testing.T) {
		c := column.NewInt("x", math.MaxInt32, math.MaxInt32, math.MaxInt32)
		require.Equal(t, int64(3*math.MaxInt32), reduceLong(t, Sum, c))
	})
}

func TestReducers_MedianOddCount(t *testing.T) {
	require.InDelta(t, 3.0, reduceDouble(t, Median, column.NewDouble("d", 9, 1, 3)), 0)
}

func TestSum_FloatingPoint(t *testing.T) {
	c := column.NewDouble("d", 1.5, math.NaN(), 2.25)
	require.InDelta(t, 3.75, reduceDouble(t, Sum, c), 0)
}

func TestReducers_AllMissing(t *testing.T) {
	c := column.NewInt("IQ", math.MinInt32, math.MinInt32)

	t.Run("Numeric reducers emit missing", func(t *testing.T) {
		out, err := Sum.Reduce(c)
		require.NoError(t, err)
		require.True(t, out.IsMissingAt(0))

		for _, r := range []Reducer{Mean, Median, Min, Max, Range, Variance, StdDev, Product} {
			out, err := r.Reduce(c)
			require.NoError(t, err, r.Name())
			require.True(t, out.IsMissingAt(0), r.Name())
		}
	})

	t.Run("Counts emit zero", func(t *testing.T) {
		require.Equal(t, int64(0), reduceLong(t, Count, c))
		require.Equal(t, int64(0), reduceLong(t, CountUnique, c))
		require.Equal(t, int64(2), reduceLong(t, CountMissing, c))
	})

	t.Run("First and Last emit missing", func(t *testing.T) {
		out, err := First.Reduce(c)
		require.NoError(t, err)
		require.Equal(t, format.TypeInt, out.Type())
		require.True(t, out.IsMissingAt(0))
	})

	t.Run("Empty column", func(t *testing.T) {
		out, err := Mean.Reduce(column.NewDouble("d"))
		require.NoError(t, err)
		require.True(t, out.IsMissingAt(0))
		require.Equal(t, int64(0), reduceLong(t, Count, column.NewDouble("d")))
	})
}

func TestVariance_SingleValue(t *testing.T) {
	out, err := Variance.Reduce(column.NewDouble("d", 3))
	require.NoError(t, err)
	require.True(t, out.IsMissingAt(0))
}

func TestFirstLast_KeepInputType(t *testing.T) {
	d := column.NewDate("dob", temporal.MissingDate, temporal.MustDate(1990, 5, 1), temporal.MustDate(2001, 1, 9), temporal.MissingDate)

	first, err := First.Reduce(d)
	require.NoError(t, err)
	require.Equal(t, format.TypeDate, first.Type())
	require.Equal(t, "1990-05-01", first.String(0))

	last, err := Last.Reduce(d)
	require.NoError(t, err)
	require.Equal(t, "2001-01-09", last.String(0))

	s := column.NewString("city", "Oslo", "Rome")
	last, err = Last.Reduce(s)
	require.NoError(t, err)
	require.Equal(t, "Rome", last.String(0))
}

func TestReducer_TypeMismatch(t *testing.T) {
	_, err := Sum.Reduce(column.NewText("t", "a"))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = Mean.OutputType(format.TypeDate)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	require.Equal(t, int64(2), reduceLong(t, CountUnique, column.NewText("t", "a", "b", "a", "")))
}

func TestReducer_OutputTypes(t *testing.T) {
	typ, err := Sum.OutputType(format.TypeShort)
	require.NoError(t, err)
	require.Equal(t, format.TypeLong, typ)

	typ, err = Sum.OutputType(format.TypeLong)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, typ)

	typ, err = Sum.OutputType(format.TypeFloat)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, typ)

	typ, err = Count.OutputType(format.TypeText)
	require.NoError(t, err)
	require.Equal(t, format.TypeLong, typ)

	typ, err = Last.OutputType(format.TypeBoolean)
	require.NoError(t, err)
	require.Equal(t, format.TypeBoolean, typ)
}

func TestReducer_Names(t *testing.T) {
	require.Equal(t, "Sum [IQ]", Sum.ColumnName("IQ"))
	require.Len(t, All(), 14)

	r, ok := ByName("Median")
	require.True(t, ok)
	require.Equal(t, "Median", r.String())

	_, ok = ByName("Mode")
	require.False(t, ok)
}

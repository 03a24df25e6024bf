package table

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/filter"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/selection"
)

func TestNew(t *testing.T) {
	t.Run("Row count mismatch", func(t *testing.T) {
		_, err := New("t", column.NewInt("a", 1, 2), column.NewInt("b", 1))
		require.ErrorIs(t, err, errs.ErrRowCountMismatch)
	})

	t.Run("Duplicate names ignore case", func(t *testing.T) {
		_, err := New("t", column.NewInt("a", 1), column.NewInt("A", 1))
		require.ErrorIs(t, err, errs.ErrDuplicateColumn)
	})

	t.Run("Empty table", func(t *testing.T) {
		tbl, err := New("t")
		require.NoError(t, err)
		require.Zero(t, tbl.RowCount())
		require.Zero(t, tbl.ColumnCount())
	})
}

func TestTable_AddColumnsIsAtomic(t *testing.T) {
	tbl := people(t)

	err := tbl.AddColumns(column.NewInt("Score", 1, 2, 3, 4, 5, 6), column.NewInt("Bad", 1))
	require.ErrorIs(t, err, errs.ErrRowCountMismatch)
	require.Equal(t, 4, tbl.ColumnCount())
	require.False(t, tbl.ContainsColumn("Score"))

	require.NoError(t, tbl.AddColumns(column.NewInt("Score", 1, 2, 3, 4, 5, 6)))
	require.Equal(t, []string{"Name", "IQ", "City", "DOB", "Score"}, tbl.ColumnNames())
}

func TestTable_RemoveColumns(t *testing.T) {
	tbl := people(t)

	require.ErrorIs(t, tbl.RemoveColumns("City", "Nope"), errs.ErrColumnNotFound)
	require.Equal(t, 4, tbl.ColumnCount())

	require.NoError(t, tbl.RemoveColumns("city", "DOB"))
	require.Equal(t, []string{"Name", "IQ"}, tbl.ColumnNames())
}

func TestTable_Column(t *testing.T) {
	tbl := people(t)

	c, err := tbl.Column("iq")
	require.NoError(t, err)
	require.Equal(t, "IQ", c.Name())
	require.Equal(t, format.TypeInt, c.Type())
	require.Equal(t, "City", tbl.ColumnAt(2).Name())

	_, err = tbl.Column("Salary")
	require.ErrorIs(t, err, errs.ErrColumnNotFound)
	require.ErrorContains(t, err, "Salary")

	sub, err := tbl.Select("DOB", "name")
	require.NoError(t, err)
	require.Equal(t, []string{"DOB", "Name"}, sub.ColumnNames())
}

func TestTable_WhereAndDrop(t *testing.T) {
	tbl := people(t)

	require.Equal(t, []string{"Bob", "Eve"}, names(t, tbl.Where(selection.Of(4, 1))))
	require.Equal(t, []string{"Ann", "Cid", "Dee", "Fay"}, names(t, tbl.DropWhere(selection.Of(1, 4))))
	require.Equal(t, []string{"Fay", "Ann", "Fay"}, names(t, tbl.Rows([]int{5, 0, 5})))

	smart, err := tbl.Filter(filter.Int("IQ").GreaterOrEqual(110))
	require.NoError(t, err)
	require.Equal(t, []string{"Ann", "Cid", "Fay"}, names(t, smart))

	rest, err := tbl.DropFilter(filter.Int("IQ").GreaterOrEqual(110))
	require.NoError(t, err)
	require.Equal(t, []string{"Bob", "Dee", "Eve"}, names(t, rest))

	_, err = tbl.Filter(filter.Int("Salary").IsPositive())
	require.ErrorIs(t, err, errs.ErrColumnNotFound)

	require.Equal(t, 6, tbl.RowCount())
}

func TestTable_WhereIgnoresRowsPastEnd(t *testing.T) {
	tbl := people(t)
	sel := selection.Of(1, 6, 40)

	got := tbl.Where(sel)
	require.Equal(t, []string{"Bob"}, names(t, got))
	require.Equal(t, 1, got.RowCount())
	require.Equal(t, []int{1, 6, 40}, sel.Slice())

	require.Equal(t, []string{"Ann", "Cid", "Dee", "Eve", "Fay"}, names(t, tbl.DropWhere(sel)))
	require.Zero(t, tbl.Where(selection.Of(6)).RowCount())
}

func TestTable_FirstLast(t *testing.T) {
	tbl := people(t)

	require.Equal(t, []string{"Ann", "Bob"}, names(t, tbl.First(2)))
	require.Equal(t, []string{"Eve", "Fay"}, names(t, tbl.Last(2)))
	require.Equal(t, 6, tbl.First(100).RowCount())
	require.Equal(t, 6, tbl.Last(100).RowCount())
	require.Zero(t, tbl.First(-1).RowCount())
}

func TestTable_Sample(t *testing.T) {
	tbl := people(t)

	t.Run("Sample keeps original order", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))
		for range 20 {
			s, err := tbl.SampleN(3, rng)
			require.NoError(t, err)
			require.Equal(t, 3, s.RowCount())

			got := names(t, s)
			pos := map[string]int{"Ann": 0, "Bob": 1, "Cid": 2, "Dee": 3, "Eve": 4, "Fay": 5}
			require.Less(t, pos[got[0]], pos[got[1]])
			require.Less(t, pos[got[1]], pos[got[2]])
		}
	})

	t.Run("Sample is repeatable with a seeded source", func(t *testing.T) {
		a, err := tbl.SampleN(4, rand.New(rand.NewPCG(9, 9)))
		require.NoError(t, err)
		b, err := tbl.SampleN(4, rand.New(rand.NewPCG(9, 9)))
		require.NoError(t, err)
		require.Equal(t, names(t, a), names(t, b))
	})

	t.Run("Sample every row", func(t *testing.T) {
		s, err := tbl.SampleN(6, rand.New(rand.NewPCG(3, 4)))
		require.NoError(t, err)
		require.Equal(t, names(t, tbl), names(t, s))
	})

	t.Run("Fractions", func(t *testing.T) {
		s, err := tbl.SampleX(0.5, rand.New(rand.NewPCG(5, 6)))
		require.NoError(t, err)
		require.Equal(t, 3, s.RowCount())
	})

	t.Run("Invalid sizes", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 8))
		_, err := tbl.SampleN(7, rng)
		require.ErrorIs(t, err, errs.ErrInvalidSampleSize)
		_, err = tbl.SampleN(-1, rng)
		require.ErrorIs(t, err, errs.ErrInvalidSampleSize)
		_, err = tbl.SampleX(1.5, rng)
		require.ErrorIs(t, err, errs.ErrInvalidSampleSize)
	})
}

func TestTable_CopyAndAppend(t *testing.T) {
	tbl := people(t)

	cp := tbl.Copy()
	c, err := cp.Column("Name")
	require.NoError(t, err)
	c.(*column.Typed[string]).Set(0, "Zed")
	require.Equal(t, "Ann", names(t, tbl)[0])

	empty := tbl.EmptyCopy()
	require.Zero(t, empty.RowCount())
	require.Equal(t, tbl.ColumnNames(), empty.ColumnNames())

	require.NoError(t, empty.Append(tbl.First(2)))
	require.NoError(t, empty.Append(tbl.Last(1)))
	require.Equal(t, []string{"Ann", "Bob", "Fay"}, names(t, empty))

	other, err := New("other", column.NewInt("Name", 1))
	require.NoError(t, err)
	require.ErrorIs(t, empty.Append(other), errs.ErrTypeMismatch)
}

func TestTable_Describe(t *testing.T) {
	tbl := people(t)

	st := tbl.Structure()
	require.Equal(t, 4, st.RowCount())
	types, err := st.Column("Column Type")
	require.NoError(t, err)
	require.Equal(t, "Date", types.String(3))

	mc := tbl.MissingCounts()
	counts, err := mc.Column("Missing")
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 0, 1}, counts.(*column.Typed[int64]).Values())
}

func TestTable_Format(t *testing.T) {
	tbl := people(t)

	out := tbl.Format(2)
	require.Contains(t, out, "people (6 rows, 4 columns)")
	require.Contains(t, out, "Ann")
	require.Contains(t, out, "1990-01-05")
	require.NotContains(t, out, "Cid")
	require.Contains(t, out, "... 4 more rows")

	require.Contains(t, tbl.String(), "Fay")
	require.NotContains(t, tbl.Format(-1), "more rows")
}

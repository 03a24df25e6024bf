package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/temporal"
)

// people returns the Name/IQ/City/DOB table used across the tests.
func people(t *testing.T) *Table {
	t.Helper()

	tbl, err := New("people",
		column.NewText("Name", "Ann", "Bob", "Cid", "Dee", "Eve", "Fay"),
		column.NewInt("IQ", 120, 98, 120, math.MinInt32, 98, 110),
		column.NewString("City", "Oslo", "Rome", "Lima", "Oslo", "Rome", "Lima"),
		column.NewDate("DOB",
			temporal.MustDate(1990, 1, 5),
			temporal.MustDate(1985, 7, 20),
			temporal.MustDate(1979, 3, 11),
			temporal.MustDate(2000, 12, 1),
			temporal.MustDate(1985, 7, 20),
			temporal.MissingDate,
		),
	)
	require.NoError(t, err)

	return tbl
}

func names(t *testing.T, tbl *Table) []string {
	t.Helper()

	c, err := tbl.Column("Name")
	require.NoError(t, err)
	typed, err := column.As[string](c)
	require.NoError(t, err)

	return typed.Values()
}

// requireSameTable compares column names, types and every cell of want and got.
func requireSameTable(t *testing.T, want, got *Table) {
	t.Helper()

	require.Equal(t, want.ColumnNames(), got.ColumnNames())
	require.Equal(t, want.RowCount(), got.RowCount())
	for i := range want.ColumnCount() {
		wc, gc := want.ColumnAt(i), got.ColumnAt(i)
		require.Equal(t, wc.Type(), gc.Type(), "column %s", wc.Name())
		for row := range wc.Len() {
			require.Equal(t, wc.IsMissingAt(row), gc.IsMissingAt(row), "column %s row %d", wc.Name(), row)
			require.Equal(t, wc.String(row), gc.String(row), "column %s row %d", wc.Name(), row)
		}
	}
}

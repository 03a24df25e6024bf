// Package column provides typed, homogeneous columns with per-type missing
// value sentinels.
//
// Every column type stores its values in a plain Go slice. A missing cell is
// not boxed: it is a reserved value of the element type (math.MinInt32 for
// Int columns, NaN for Double columns, "" for text, and so on), so a column of
// a million ints is a single []int32.
//
// All fixed-width and text kinds share one generic implementation, Typed[T].
// The per-type behaviour (sentinel, ordering, parsing, formatting and numeric
// view) is supplied by a Kind[T] value. String columns are dictionary encoded
// and implemented separately by StringColumn.
//
// # Column Types
//
//	Type      Element            Missing
//	Short     int16              math.MinInt16
//	Int       int32              math.MinInt32
//	Long      int64              math.MinInt64
//	Float     float32            NaN
//	Double    float64            NaN
//	Boolean   int8 (1, 0)        -1
//	String    dictionary code    ""
//	Text      string             ""
//	Date      temporal.Date      temporal.MissingDate
//	Time      temporal.Time      temporal.MissingTime
//	DateTime  temporal.DateTime  temporal.MissingDateTime
//
// Storing a value equal to the sentinel is indistinguishable from storing a
// missing value.
//
// # Ordering
//
// CompareRows orders missing cells before every present value, so an
// ascending sort puts them first and a descending sort puts them last.
//
// # Basic Usage
//
//	iq := column.NewInt("IQ", 101, 98, 120)
//	iq.AppendMissing()
//	if err := iq.AppendCell("87"); err != nil {
//	    return err
//	}
//
//	missing := iq.IsMissing() // selection {3}
//	smart := iq.Where(selection.Of(2))
package column

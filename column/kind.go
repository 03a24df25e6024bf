package column

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/temporal"
)

// Kind supplies the type-specific behaviour of a Typed column.
//
// Compare is only ever called with present values. ToFloat and ToInt are nil
// for non-numeric kinds.
type Kind[T comparable] struct {
	Type      format.ColumnType
	Missing   T
	IsMissing func(v T) bool
	Compare   func(a, b T) int
	Parse     func(raw string) (T, error)
	Format    func(v T) string
	Key       func(buf []byte, v T) []byte
	ToFloat   func(v T) float64
	ToInt     func(v T) int64
}

const (
	// BoolTrue is the stored form of true.
	BoolTrue int8 = 1
	// BoolFalse is the stored form of false.
	BoolFalse int8 = 0
	// BoolMissing is the missing sentinel of Boolean columns.
	BoolMissing int8 = -1
)

// BoolValue converts b to its stored form.
func BoolValue(b bool) int8 {
	if b {
		return BoolTrue
	}

	return BoolFalse
}

func isSentinel[T comparable](sentinel T) func(T) bool {
	return func(v T) bool { return v == sentinel }
}

func parseInt[T int16 | int32 | int64](bits int) func(string) (T, error) {
	return func(raw string) (T, error) {
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, bits)
		return T(v), err
	}
}

func formatInt[T int16 | int32 | int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

func isNaN[T float32 | float64](v T) bool {
	return v != v //nolint:gocritic
}

func floatKey[T float32 | float64](buf []byte, v T) []byte {
	f := float64(v)
	if f == 0 {
		f = 0 // fold -0 into +0
	}
	if math.IsNaN(f) {
		f = math.NaN()
	}

	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
}

func stringKey(buf []byte, v string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(v)))
	return append(buf, v...)
}

// ShortKind describes Short columns.
var ShortKind = &Kind[int16]{
	Type:      format.TypeShort,
	Missing:   math.MinInt16,
	IsMissing: isSentinel[int16](math.MinInt16),
	Compare:   cmp.Compare[int16],
	Parse:     parseInt[int16](16),
	Format:    formatInt[int16],
	Key: func(buf []byte, v int16) []byte {
		return binary.LittleEndian.AppendUint16(buf, uint16(v)) //nolint:gosec
	},
	ToFloat: func(v int16) float64 { return float64(v) },
	ToInt:   func(v int16) int64 { return int64(v) },
}

// IntKind describes Int columns.
var IntKind = &Kind[int32]{
	Type:      format.TypeInt,
	Missing:   math.MinInt32,
	IsMissing: isSentinel[int32](math.MinInt32),
	Compare:   cmp.Compare[int32],
	Parse:     parseInt[int32](32),
	Format:    formatInt[int32],
	Key: func(buf []byte, v int32) []byte {
		return binary.LittleEndian.AppendUint32(buf, uint32(v)) //nolint:gosec
	},
	ToFloat: func(v int32) float64 { return float64(v) },
	ToInt:   func(v int32) int64 { return int64(v) },
}

// LongKind describes Long columns.
var LongKind = &Kind[int64]{
	Type:      format.TypeLong,
	Missing:   math.MinInt64,
	IsMissing: isSentinel[int64](math.MinInt64),
	Compare:   cmp.Compare[int64],
	Parse:     parseInt[int64](64),
	Format:    formatInt[int64],
	Key: func(buf []byte, v int64) []byte {
		return binary.LittleEndian.AppendUint64(buf, uint64(v)) //nolint:gosec
	},
	ToFloat: func(v int64) float64 { return float64(v) },
	ToInt:   func(v int64) int64 { return v },
}

// FloatKind describes Float columns.
var FloatKind = &Kind[float32]{
	Type:      format.TypeFloat,
	Missing:   float32(math.NaN()),
	IsMissing: isNaN[float32],
	Compare:   cmp.Compare[float32],
	Parse: func(raw string) (float32, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
		return float32(v), err
	},
	Format:  func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) },
	Key:     floatKey[float32],
	ToFloat: func(v float32) float64 { return float64(v) },
	ToInt:   func(v float32) int64 { return int64(v) },
}

// DoubleKind describes Double columns.
var DoubleKind = &Kind[float64]{
	Type:      format.TypeDouble,
	Missing:   math.NaN(),
	IsMissing: isNaN[float64],
	Compare:   cmp.Compare[float64],
	Parse: func(raw string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	},
	Format:  func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	Key:     floatKey[float64],
	ToFloat: func(v float64) float64 { return v },
	ToInt:   func(v float64) int64 { return int64(v) },
}

// BoolKind describes Boolean columns. False orders before true.
var BoolKind = &Kind[int8]{
	Type:      format.TypeBoolean,
	Missing:   BoolMissing,
	IsMissing: isSentinel(BoolMissing),
	Compare:   cmp.Compare[int8],
	Parse:     parseBool,
	Format: func(v int8) string {
		if v == BoolTrue {
			return "true"
		}

		return "false"
	},
	Key: func(buf []byte, v int8) []byte {
		return append(buf, byte(v))
	},
}

func parseBool(raw string) (int8, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1":
		return BoolTrue, nil
	case "false", "f", "no", "n", "0":
		return BoolFalse, nil
	}

	return BoolMissing, fmt.Errorf("invalid boolean %q", raw)
}

// TextKind describes Text columns.
var TextKind = &Kind[string]{
	Type:      format.TypeText,
	Missing:   "",
	IsMissing: isSentinel(""),
	Compare:   strings.Compare,
	Parse:     func(raw string) (string, error) { return raw, nil },
	Format:    func(v string) string { return v },
	Key:       stringKey,
}

// DateKind describes Date columns.
var DateKind = &Kind[temporal.Date]{
	Type:      format.TypeDate,
	Missing:   temporal.MissingDate,
	IsMissing: temporal.Date.IsMissing,
	Compare:   cmp.Compare[temporal.Date],
	Parse:     func(raw string) (temporal.Date, error) { return temporal.ParseDate(strings.TrimSpace(raw)) },
	Format:    temporal.Date.String,
	Key: func(buf []byte, v temporal.Date) []byte {
		return binary.LittleEndian.AppendUint32(buf, uint32(v)) //nolint:gosec
	},
}

// TimeKind describes Time columns.
var TimeKind = &Kind[temporal.Time]{
	Type:      format.TypeTime,
	Missing:   temporal.MissingTime,
	IsMissing: temporal.Time.IsMissing,
	Compare:   cmp.Compare[temporal.Time],
	Parse:     func(raw string) (temporal.Time, error) { return temporal.ParseTime(strings.TrimSpace(raw)) },
	Format:    temporal.Time.String,
	Key: func(buf []byte, v temporal.Time) []byte {
		return binary.LittleEndian.AppendUint32(buf, uint32(v)) //nolint:gosec
	},
}

// DateTimeKind describes DateTime columns.
var DateTimeKind = &Kind[temporal.DateTime]{
	Type:      format.TypeDateTime,
	Missing:   temporal.MissingDateTime,
	IsMissing: temporal.DateTime.IsMissing,
	Compare:   cmp.Compare[temporal.DateTime],
	Parse: func(raw string) (temporal.DateTime, error) {
		return temporal.ParseDateTime(strings.TrimSpace(raw))
	},
	Format: temporal.DateTime.String,
	Key: func(buf []byte, v temporal.DateTime) []byte {
		return binary.LittleEndian.AppendUint64(buf, uint64(v)) //nolint:gosec
	},
}

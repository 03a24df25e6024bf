package storage

import (
	"fmt"

	"github.com/arloliu/coltab/column"
	"github.com/arloliu/coltab/encoding"
	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
	"github.com/arloliu/coltab/temporal"
)

// payload is an encoded column body backed by a pooled buffer. It is the
// type-independent part of encoding.ColumnarEncoder.
type payload interface {
	Bytes() []byte
	Size() int
	Finish()
}

// encodeColumn serializes the values of col in row order:
//   - fixed-width types: one value per row, Boolean as one byte;
//   - Text: one length-prefixed string per row;
//   - String: int32 dictionary size, each dictionary entry once, then one
//     int32 code per row.
func encodeColumn(col column.Column, engine endian.EndianEngine) (payload, error) {
	switch c := col.(type) {
	case *column.Typed[int16]:
		return encodeFixed(engine, encoding.Int16Codec, c.Values()), nil
	case *column.Typed[int32]:
		return encodeFixed(engine, encoding.Int32Codec[int32](), c.Values()), nil
	case *column.Typed[int64]:
		return encodeFixed(engine, encoding.Int64Codec[int64](), c.Values()), nil
	case *column.Typed[float32]:
		return encodeFixed(engine, encoding.Float32Codec, c.Values()), nil
	case *column.Typed[float64]:
		return encodeFixed(engine, encoding.Float64Codec, c.Values()), nil
	case *column.Typed[int8]:
		return encodeFixed(engine, encoding.Int8Codec, c.Values()), nil
	case *column.Typed[temporal.Date]:
		return encodeFixed(engine, encoding.Int32Codec[temporal.Date](), c.Values()), nil
	case *column.Typed[temporal.Time]:
		return encodeFixed(engine, encoding.Int32Codec[temporal.Time](), c.Values()), nil
	case *column.Typed[temporal.DateTime]:
		return encodeFixed(engine, encoding.Int64Codec[temporal.DateTime](), c.Values()), nil
	case *column.Typed[string]:
		var enc encoding.ColumnarEncoder[string] = encoding.NewVarStringEncoder(engine)
		enc.WriteSlice(c.Values())

		return enc, nil
	case *column.StringColumn:
		dict := c.Dictionary()
		enc := encoding.NewVarStringEncoder(engine)
		enc.WriteInt32(int32(len(dict))) //nolint:gosec
		enc.WriteSlice(dict)
		for _, code := range c.Codes() {
			enc.WriteInt32(code)
		}

		return enc, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, col.Type())
	}
}

func encodeFixed[T any](engine endian.EndianEngine, codec encoding.FixedCodec[T], values []T) encoding.ColumnarEncoder[T] {
	var enc encoding.ColumnarEncoder[T] = encoding.NewFixedEncoder(engine, codec)
	enc.WriteSlice(values)

	return enc
}

// decodeColumn rebuilds a column of the given type from its payload.
func decodeColumn(name string, typ format.ColumnType, rows int, engine endian.EndianEngine, data []byte) (column.Column, error) {
	switch typ {
	case format.TypeShort:
		return decodeFixed(name, column.ShortKind, engine, encoding.Int16Codec, data, rows)
	case format.TypeInt:
		return decodeFixed(name, column.IntKind, engine, encoding.Int32Codec[int32](), data, rows)
	case format.TypeLong:
		return decodeFixed(name, column.LongKind, engine, encoding.Int64Codec[int64](), data, rows)
	case format.TypeFloat:
		return decodeFixed(name, column.FloatKind, engine, encoding.Float32Codec, data, rows)
	case format.TypeDouble:
		return decodeFixed(name, column.DoubleKind, engine, encoding.Float64Codec, data, rows)
	case format.TypeBoolean:
		return decodeBoolean(name, engine, data, rows)
	case format.TypeDate:
		return decodeFixed(name, column.DateKind, engine, encoding.Int32Codec[temporal.Date](), data, rows)
	case format.TypeTime:
		return decodeFixed(name, column.TimeKind, engine, encoding.Int32Codec[temporal.Time](), data, rows)
	case format.TypeDateTime:
		return decodeFixed(name, column.DateTimeKind, engine, encoding.Int64Codec[temporal.DateTime](), data, rows)
	case format.TypeText:
		return decodeText(name, data, rows)
	case format.TypeString:
		return decodeString(name, engine, data, rows)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedColumnType, typ)
	}
}

func decodeFixed[T comparable](
	name string,
	kind *column.Kind[T],
	engine endian.EndianEngine,
	codec encoding.FixedCodec[T],
	data []byte,
	rows int,
) (*column.Typed[T], error) {
	var dec encoding.ColumnarDecoder[T] = encoding.NewFixedDecoder(engine, codec)
	values, err := dec.Decode(data, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}

	return column.FromValues(name, kind, values), nil
}

func decodeBoolean(name string, engine endian.EndianEngine, data []byte, rows int) (*column.Typed[int8], error) {
	col, err := decodeFixed(name, column.BoolKind, engine, encoding.Int8Codec, data, rows)
	if err != nil {
		return nil, err
	}
	for row, v := range col.Values() {
		if v != column.BoolTrue && v != column.BoolFalse && v != column.BoolMissing {
			return nil, fmt.Errorf("%w: row %d holds boolean byte %d", errs.ErrCorruptPayload, row, v)
		}
	}

	return col, nil
}

func decodeText(name string, data []byte, rows int) (*column.Typed[string], error) {
	values, n, err := encoding.NewVarStringDecoder().Decode(data, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d values", errs.ErrCorruptPayload, len(data)-n, rows)
	}

	return column.FromValues(name, column.TextKind, values), nil
}

func decodeString(name string, engine endian.EndianEngine, data []byte, rows int) (*column.StringColumn, error) {
	size, err := encoding.ReadInt32(engine, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative dictionary size %d", errs.ErrCorruptPayload, size)
	}
	data = data[4:]
	// each entry takes at least its one-byte length prefix
	if int(size) > len(data) {
		return nil, fmt.Errorf("%w: dictionary size %d exceeds %d payload bytes", errs.ErrCorruptPayload, size, len(data))
	}

	dict, n, err := encoding.NewVarStringDecoder().Decode(data, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: dictionary: %w", errs.ErrCorruptPayload, err)
	}

	codes, err := encoding.NewFixedDecoder(engine, encoding.Int32Codec[int32]()).Decode(data[n:], rows)
	if err != nil {
		return nil, fmt.Errorf("%w: codes: %w", errs.ErrCorruptPayload, err)
	}

	col, err := column.NewStringFromDictionary(name, dict, codes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptPayload, err)
	}

	return col, nil
}

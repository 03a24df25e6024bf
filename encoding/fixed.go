package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/internal/pool"
)

// FixedCodec describes the byte layout of a fixed-width value.
type FixedCodec[T any] struct {
	// Width is the encoded size in bytes.
	Width int
	// Put writes v into b[:Width].
	Put func(engine endian.EndianEngine, b []byte, v T)
	// Get reads a value from b[:Width].
	Get func(engine endian.EndianEngine, b []byte) T
}

// Int8Codec encodes one byte per value.
var Int8Codec = FixedCodec[int8]{
	Width: 1,
	Put:   func(_ endian.EndianEngine, b []byte, v int8) { b[0] = byte(v) },
	Get:   func(_ endian.EndianEngine, b []byte) int8 { return int8(b[0]) },
}

// Int16Codec encodes two bytes per value.
var Int16Codec = FixedCodec[int16]{
	Width: 2,
	Put: func(e endian.EndianEngine, b []byte, v int16) {
		e.PutUint16(b, uint16(v)) //nolint:gosec
	},
	Get: func(e endian.EndianEngine, b []byte) int16 { return int16(e.Uint16(b)) }, //nolint:gosec
}

// Float32Codec encodes IEEE-754 single precision values.
var Float32Codec = FixedCodec[float32]{
	Width: 4,
	Put:   func(e endian.EndianEngine, b []byte, v float32) { e.PutUint32(b, math.Float32bits(v)) },
	Get:   func(e endian.EndianEngine, b []byte) float32 { return math.Float32frombits(e.Uint32(b)) },
}

// Float64Codec encodes IEEE-754 double precision values.
var Float64Codec = FixedCodec[float64]{
	Width: 8,
	Put:   func(e endian.EndianEngine, b []byte, v float64) { e.PutUint64(b, math.Float64bits(v)) },
	Get:   func(e endian.EndianEngine, b []byte) float64 { return math.Float64frombits(e.Uint64(b)) },
}

// Int32Codec returns the four-byte codec for any type whose underlying type
// is int32, such as temporal.Date and temporal.Time.
func Int32Codec[T ~int32]() FixedCodec[T] {
	return FixedCodec[T]{
		Width: 4,
		Put: func(e endian.EndianEngine, b []byte, v T) {
			e.PutUint32(b, uint32(v)) //nolint:gosec
		},
		Get: func(e endian.EndianEngine, b []byte) T { return T(int32(e.Uint32(b))) }, //nolint:gosec
	}
}

// Int64Codec returns the eight-byte codec for any type whose underlying type
// is int64, such as temporal.DateTime.
func Int64Codec[T ~int64]() FixedCodec[T] {
	return FixedCodec[T]{
		Width: 8,
		Put: func(e endian.EndianEngine, b []byte, v T) {
			e.PutUint64(b, uint64(v)) //nolint:gosec
		},
		Get: func(e endian.EndianEngine, b []byte) T { return T(int64(e.Uint64(b))) }, //nolint:gosec
	}
}

// FixedEncoder appends fixed-width values to a pooled buffer.
//
// Call Finish when the encoded bytes are no longer needed to return the
// buffer to the pool; the encoder cannot be used afterwards.
type FixedEncoder[T any] struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	codec  FixedCodec[T]
	count  int
}

var _ ColumnarEncoder[int32] = (*FixedEncoder[int32])(nil)

// NewFixedEncoder creates an encoder writing values with codec in engine byte order.
func NewFixedEncoder[T any](engine endian.EndianEngine, codec FixedCodec[T]) *FixedEncoder[T] {
	return &FixedEncoder[T]{
		buf:    pool.GetColumnBuffer(),
		engine: engine,
		codec:  codec,
	}
}

// Write appends one value.
func (e *FixedEncoder[T]) Write(v T) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	start := e.buf.Len()
	e.buf.Grow(e.codec.Width)
	e.buf.B = e.buf.B[:start+e.codec.Width]
	e.codec.Put(e.engine, e.buf.B[start:], v)
	e.count++
}

// WriteSlice appends values in order.
func (e *FixedEncoder[T]) WriteSlice(values []T) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if len(values) == 0 {
		return
	}

	start := e.buf.Len()
	size := len(values) * e.codec.Width
	e.buf.Grow(size)
	e.buf.B = e.buf.B[:start+size]
	for i, v := range values {
		off := start + i*e.codec.Width
		e.codec.Put(e.engine, e.buf.B[off:off+e.codec.Width], v)
	}
	e.count += len(values)
}

// Bytes returns the encoded values. The slice is valid until Finish or Reset.
func (e *FixedEncoder[T]) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of encoded values.
func (e *FixedEncoder[T]) Len() int { return e.count }

// Size returns the number of encoded bytes.
func (e *FixedEncoder[T]) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Reset discards the encoded values and keeps the buffer.
func (e *FixedEncoder[T]) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.count = 0
}

// Finish returns the buffer to the pool.
func (e *FixedEncoder[T]) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
}

// FixedDecoder reads fixed-width values written by FixedEncoder.
type FixedDecoder[T any] struct {
	engine endian.EndianEngine
	codec  FixedCodec[T]
}

var _ ColumnarDecoder[int32] = FixedDecoder[int32]{}

// NewFixedDecoder creates a decoder for values written with codec in engine byte order.
func NewFixedDecoder[T any](engine endian.EndianEngine, codec FixedCodec[T]) FixedDecoder[T] {
	return FixedDecoder[T]{engine: engine, codec: codec}
}

// Decode reads exactly count values; data must hold exactly count*Width bytes.
func (d FixedDecoder[T]) Decode(data []byte, count int) ([]T, error) {
	w := d.codec.Width
	if count < 0 || count > len(data)/w || len(data) != count*w {
		return nil, fmt.Errorf("fixed-width payload has %d bytes, want %d values of %d bytes", len(data), count, w)
	}

	out := make([]T, count)
	for i := range out {
		out[i] = d.codec.Get(d.engine, data[i*w:])
	}

	return out, nil
}

package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/internal/pool"
)

// MaxStringLength bounds a single decoded string so corrupt length prefixes
// cannot trigger huge allocations.
const MaxStringLength = 64 * 1024 * 1024

// ErrTruncated is returned when a payload ends inside a value.
var ErrTruncated = errors.New("truncated payload")

// VarStringEncoder writes strings as a uvarint byte length followed by the
// bytes. There is no per-string limit other than MaxStringLength.
type VarStringEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[string] = (*VarStringEncoder)(nil)

// NewVarStringEncoder creates an encoder backed by a pooled buffer. engine
// orders the fixed-width integers written by WriteInt32.
func NewVarStringEncoder(engine endian.EndianEngine) *VarStringEncoder {
	return &VarStringEncoder{buf: pool.GetColumnBuffer(), engine: engine}
}

// Write appends one string.
func (e *VarStringEncoder) Write(s string) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.buf.Grow(binary.MaxVarintLen64 + len(s))
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(s)))
	e.buf.B = append(e.buf.B, s...)
	e.count++
}

// WriteSlice appends strings in order.
func (e *VarStringEncoder) WriteSlice(values []string) {
	size := 0
	for _, s := range values {
		size += binary.MaxVarintLen64 + len(s)
	}
	e.buf.Grow(size)
	for _, s := range values {
		e.Write(s)
	}
}

// WriteInt32 appends a fixed four-byte integer, used for the counts and
// codes that frame string dictionaries.
func (e *VarStringEncoder) WriteInt32(v int32) {
	e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(v)) //nolint:gosec
}

// Bytes returns the encoded payload.
func (e *VarStringEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of strings written.
func (e *VarStringEncoder) Len() int { return e.count }

// Size returns the payload size in bytes.
func (e *VarStringEncoder) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Reset discards written strings.
func (e *VarStringEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.count = 0
}

// Finish returns the buffer to the pool.
func (e *VarStringEncoder) Finish() {
	if e.buf != nil {
		pool.PutColumnBuffer(e.buf)
		e.buf = nil
	}
}

// VarStringDecoder reads strings written by VarStringEncoder.
type VarStringDecoder struct{}

// NewVarStringDecoder creates a decoder.
func NewVarStringDecoder() VarStringDecoder { return VarStringDecoder{} }

// Next decodes one string from the front of data and returns it with the
// number of bytes consumed.
func (VarStringDecoder) Next(data []byte) (string, int, error) {
	n, size := binary.Uvarint(data)
	if size <= 0 {
		return "", 0, fmt.Errorf("%w: bad string length prefix", ErrTruncated)
	}
	if n > MaxStringLength {
		return "", 0, fmt.Errorf("string length %d exceeds maximum %d", n, MaxStringLength)
	}
	end := size + int(n) //nolint:gosec
	if end > len(data) {
		return "", 0, fmt.Errorf("%w: string of %d bytes with %d remaining", ErrTruncated, n, len(data)-size)
	}

	return string(data[size:end]), end, nil
}

// Decode reads count strings and returns them with the number of bytes consumed.
// Every string takes at least one byte, so count never allocates beyond len(data).
func (d VarStringDecoder) Decode(data []byte, count int) ([]string, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("negative string count %d", count)
	}
	out := make([]string, 0, min(count, len(data)))
	off := 0
	for range count {
		s, n, err := d.Next(data[off:])
		if err != nil {
			return nil, off, err
		}
		out = append(out, s)
		off += n
	}

	return out, off, nil
}

// ReadInt32 reads a value written by WriteInt32 from the front of data.
func ReadInt32(engine endian.EndianEngine, data []byte) (int32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes, have %d", ErrTruncated, len(data))
	}

	return int32(engine.Uint32(data)), nil //nolint:gosec
}

package pool

import (
	"io"
	"sync"
)

const (
	// ColumnBufferDefaultSize is the initial capacity of a pooled column buffer.
	ColumnBufferDefaultSize = 64 * 1024 // 64KiB
	// ColumnBufferMaxThreshold is the largest buffer returned to the pool.
	ColumnBufferMaxThreshold = 8 * 1024 * 1024 // 8MiB
	// KeyBufferDefaultSize is the initial capacity of a pooled row-key buffer.
	KeyBufferDefaultSize = 256
	// KeyBufferMaxThreshold is the largest key buffer returned to the pool.
	KeyBufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a growable byte slice that implements io.Writer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffered bytes.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow ensures room for n more bytes without reallocating.
//
// Small buffers grow by ColumnBufferDefaultSize; larger ones by a quarter of
// their capacity.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := ColumnBufferDefaultSize
	if cap(bb.B) > 4*ColumnBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteByte appends a single byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the buffered bytes to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool.
//
// Buffers that grew beyond maxThreshold are dropped on Put so a single wide
// column does not pin its memory for the lifetime of the process.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given initial capacity.
// A maxThreshold of zero keeps every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. Nil is ignored.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	columnPool = NewByteBufferPool(ColumnBufferDefaultSize, ColumnBufferMaxThreshold)
	keyPool    = NewByteBufferPool(KeyBufferDefaultSize, KeyBufferMaxThreshold)
)

// GetColumnBuffer retrieves a buffer sized for encoding a column payload.
func GetColumnBuffer() *ByteBuffer {
	return columnPool.Get()
}

// PutColumnBuffer returns a column buffer to the pool.
func PutColumnBuffer(bb *ByteBuffer) {
	columnPool.Put(bb)
}

// GetKeyBuffer retrieves a small buffer for building row keys.
func GetKeyBuffer() *ByteBuffer {
	return keyPool.Get()
}

// PutKeyBuffer returns a key buffer to the pool.
func PutKeyBuffer(bb *ByteBuffer) {
	keyPool.Put(bb)
}

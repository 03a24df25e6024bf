package section

import (
	"fmt"
	"io"

	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

// ColumnHeader is the fixed-size header at the start of every column file.
// The compressed payload stream follows immediately after it.
type ColumnHeader struct {
	// Flag holds the options, column type and compression. byte offset 0-3
	Flag ColumnFlag
	// RowCount is the number of values in the payload. byte offset 8-15
	RowCount uint64
}

// NewColumnHeader creates a little-endian header.
func NewColumnHeader(columnType format.ColumnType, compression format.CompressionType, rowCount int) *ColumnHeader {
	return &ColumnHeader{
		Flag:     NewColumnFlag(columnType, compression),
		RowCount: uint64(rowCount), //nolint:gosec
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 16 bytes)
//
// Returns:
//   - error: ErrInvalidHeader if data has the wrong size, or flag validation errors
func (h *ColumnHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", errs.ErrInvalidHeader, len(data), HeaderSize)
	}

	// Options are always little-endian so the endianness bit can be read first
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.ColumnType = data[TypeOffset]
	h.Flag.CompressionType = data[CompressionOffset]

	engine := h.Flag.GetEndianEngine()
	if reserved := engine.Uint32(data[ReservedOffset:RowCountOffset]); reserved != 0 {
		return fmt.Errorf("%w: reserved field is 0x%08x", errs.ErrInvalidHeader, reserved)
	}
	h.RowCount = engine.Uint64(data[RowCountOffset:HeaderSize])

	return h.Flag.Validate()
}

// Bytes serializes the header.
func (h *ColumnHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[TypeOffset] = h.Flag.ColumnType
	b[CompressionOffset] = h.Flag.CompressionType
	h.Flag.GetEndianEngine().PutUint64(b[RowCountOffset:HeaderSize], h.RowCount)

	return b
}

// WriteTo writes the serialized header to w.
func (h *ColumnHeader) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.Bytes())
	return int64(n), err
}

// Rows returns RowCount as an int.
func (h *ColumnHeader) Rows() int {
	return int(h.RowCount) //nolint:gosec
}

// ParseColumnHeader parses a ColumnHeader from the front of data.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least 16 bytes)
//
// Returns:
//   - ColumnHeader: Parsed header struct
//   - error: ErrInvalidHeader or flag validation errors
func ParseColumnHeader(data []byte) (ColumnHeader, error) {
	if len(data) < HeaderSize {
		return ColumnHeader{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInvalidHeader, HeaderSize, len(data))
	}

	h := ColumnHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return ColumnHeader{}, err
	}

	return h, nil
}

// ReadColumnHeader reads and parses exactly one header from r.
func ReadColumnHeader(r io.Reader) (ColumnHeader, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return ColumnHeader{}, fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
	}

	return ParseColumnHeader(b[:])
}

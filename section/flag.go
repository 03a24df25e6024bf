package section

import (
	"fmt"

	"github.com/arloliu/coltab/endian"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

// ColumnFlag is the packed type, compression and option field at the start
// of every column file.
type ColumnFlag struct {
	// Options is a packed field for various options.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 0, 2 and 3 are reserved for future use, must be set to 0.
	// Bit 4-15 are magic number to identify the file format:
	//   - 0xEC10 (0b1110_1100_0001_0000): column file format v1
	Options uint16

	// ColumnType is the format.ColumnType of the stored column.
	ColumnType uint8
	// CompressionType is the format.CompressionType of the payload stream.
	CompressionType uint8
}

// NewColumnFlag creates a little-endian flag for the given column and compression types.
func NewColumnFlag(columnType format.ColumnType, compression format.CompressionType) ColumnFlag {
	flag := ColumnFlag{
		Options:         MagicColumnV1Opt,
		ColumnType:      uint8(columnType),
		CompressionType: uint8(compression),
	}
	flag.WithLittleEndian()

	return flag
}

// IsBigEndian returns whether the fixed-width fields use big-endian order.
func (f ColumnFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// IsLittleEndian returns whether the fixed-width fields use little-endian order.
func (f ColumnFlag) IsLittleEndian() bool {
	return !f.IsBigEndian()
}

// WithBigEndian sets big-endian byte order.
func (f *ColumnFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// WithLittleEndian sets little-endian byte order.
func (f *ColumnFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f ColumnFlag) GetEndianEngine() endian.EndianEngine {
	return endian.ForFlag(f.IsBigEndian())
}

// Type returns the stored column type.
func (f ColumnFlag) Type() format.ColumnType {
	return format.ColumnType(f.ColumnType)
}

// Compression returns the payload compression type.
func (f ColumnFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// Validate checks the magic number, reserved bits and type tags.
//
// Returns:
//   - error: ErrInvalidHeader, ErrUnsupportedColumnType or ErrInvalidCompression
func (f ColumnFlag) Validate() error {
	if f.Options&MagicNumberMask != MagicColumnV1Opt {
		return fmt.Errorf("%w: bad magic number 0x%04x", errs.ErrInvalidHeader, f.Options&MagicNumberMask)
	}
	if f.Options&ReservedBitsMask != 0 {
		return fmt.Errorf("%w: reserved option bits set", errs.ErrInvalidHeader)
	}
	if !f.Type().IsValid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedColumnType, f.ColumnType)
	}
	if !f.Compression().IsValid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompression, f.CompressionType)
	}

	return nil
}

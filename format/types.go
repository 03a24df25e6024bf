// Package format defines the type tags shared by the in-memory model and the
// on-disk column store.
package format

import (
	"fmt"
	"strings"
)

type (
	ColumnType      uint8
	CompressionType uint8
)

const (
	TypeShort    ColumnType = 0x1 // TypeShort represents 16-bit signed integers.
	TypeInt      ColumnType = 0x2 // TypeInt represents 32-bit signed integers.
	TypeLong     ColumnType = 0x3 // TypeLong represents 64-bit signed integers.
	TypeFloat    ColumnType = 0x4 // TypeFloat represents 32-bit floating point numbers.
	TypeDouble   ColumnType = 0x5 // TypeDouble represents 64-bit floating point numbers.
	TypeBoolean  ColumnType = 0x6 // TypeBoolean represents true/false values stored as one byte.
	TypeString   ColumnType = 0x7 // TypeString represents dictionary-encoded categorical strings.
	TypeText     ColumnType = 0x8 // TypeText represents free text stored value by value.
	TypeDate     ColumnType = 0x9 // TypeDate represents packed calendar dates.
	TypeTime     ColumnType = 0xA // TypeTime represents packed times of day.
	TypeDateTime ColumnType = 0xB // TypeDateTime represents packed date-times.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents snappy-compatible S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.
)

var columnTypeNames = map[ColumnType]string{
	TypeShort:    "Short",
	TypeInt:      "Int",
	TypeLong:     "Long",
	TypeFloat:    "Float",
	TypeDouble:   "Double",
	TypeBoolean:  "Boolean",
	TypeString:   "String",
	TypeText:     "Text",
	TypeDate:     "Date",
	TypeTime:     "Time",
	TypeDateTime: "DateTime",
}

// ColumnTypes lists every supported column type in tag order.
func ColumnTypes() []ColumnType {
	return []ColumnType{
		TypeShort, TypeInt, TypeLong, TypeFloat, TypeDouble, TypeBoolean,
		TypeString, TypeText, TypeDate, TypeTime, TypeDateTime,
	}
}

func (c ColumnType) String() string {
	if name, ok := columnTypeNames[c]; ok {
		return name
	}

	return "Unknown"
}

// IsValid reports whether c is a known column type.
func (c ColumnType) IsValid() bool {
	_, ok := columnTypeNames[c]
	return ok
}

// IsNumeric reports whether values of this type can be reduced arithmetically.
func (c ColumnType) IsNumeric() bool {
	switch c { //nolint: exhaustive
	case TypeShort, TypeInt, TypeLong, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// IsIntegral reports whether c is one of the integer types.
func (c ColumnType) IsIntegral() bool {
	return c == TypeShort || c == TypeInt || c == TypeLong
}

// IsTemporal reports whether c is one of the packed temporal types.
func (c ColumnType) IsTemporal() bool {
	return c == TypeDate || c == TypeTime || c == TypeDateTime
}

// Width returns the fixed on-disk width of one value in bytes, or 0 for the
// variable-width string types.
func (c ColumnType) Width() int {
	switch c {
	case TypeBoolean:
		return 1
	case TypeShort:
		return 2
	case TypeInt, TypeFloat, TypeDate, TypeTime:
		return 4
	case TypeLong, TypeDouble, TypeDateTime:
		return 8
	default:
		return 0
	}
}

// ParseColumnType parses the name produced by ColumnType.String, ignoring case.
func ParseColumnType(name string) (ColumnType, error) {
	for t, n := range columnTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}

	return 0, fmt.Errorf("unknown column type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c ColumnType) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("unknown column type 0x%x", uint8(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ColumnType) UnmarshalText(text []byte) error {
	t, err := ParseColumnType(string(text))
	if err != nil {
		return err
	}
	*c = t

	return nil
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// IsValid reports whether c is a known compression type.
func (c CompressionType) IsValid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

// ParseCompressionType parses the name produced by CompressionType.String, ignoring case.
func ParseCompressionType(name string) (CompressionType, error) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown compression type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c CompressionType) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("unknown compression type 0x%x", uint8(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompressionType) UnmarshalText(text []byte) error {
	ct, err := ParseCompressionType(string(text))
	if err != nil {
		return err
	}
	*c = ct

	return nil
}

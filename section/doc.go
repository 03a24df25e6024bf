// Package section defines the fixed binary header of coltab column files.
//
// Every column of a saved table lives in its own file:
//
//	┌──────────────────────────────────────────────┐
//	│ Header (16 bytes, fixed)                     │
//	│  - Options (2 bytes, little-endian)          │
//	│      bit 1: endianness, bits 4-15: magic     │
//	│  - ColumnType (1 byte)                       │
//	│  - CompressionType (1 byte)                  │
//	│  - Reserved (4 bytes, zero)                  │
//	│  - RowCount (8 bytes, header byte order)     │
//	├──────────────────────────────────────────────┤
//	│ Payload (compressed stream)                  │
//	└──────────────────────────────────────────────┘
//
// The options word is always little-endian so a reader can learn the byte
// order of the remaining fields before decoding them. The payload layout
// depends on the column type and is defined by the storage package.
package section

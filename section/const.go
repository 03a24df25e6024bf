package section

const (
	// Bit masks
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000D // Mask for reserved bits (bits 0, 2, 3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicColumnV1Opt = 0xEC10 // MagicColumnV1Opt identifies a version 1 column file.
)

// offsets and sizes in a column file
const (
	HeaderSize       = 16 // fixed header size in bytes
	OptionsOffset    = 0  // uint16 options, always little-endian
	TypeOffset       = 2  // uint8 column type
	CompressionOffset = 3  // uint8 compression type
	ReservedOffset   = 4  // uint32 reserved, must be zero
	RowCountOffset   = 8  // uint64 row count in the header's byte order
)

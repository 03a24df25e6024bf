// Package endian selects the byte order used for fixed-width column payloads.
//
// Column files record their byte order in the column header, so a table
// written on one host can be read on any other. Little-endian is the default
// for new files:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(code))
//
// EndianEngine bundles binary.ByteOrder with binary.AppendByteOrder so the
// encoders can both append to growing buffers and decode in place without
// switching interfaces.
//
// All values returned by this package are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Native returns the byte order of the running host.
func Native() EndianEngine {
	var probe uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return Native() == binary.LittleEndian
}

// IsBigEndian reports whether engine encodes most-significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// ForFlag returns the engine matching a header's big-endian flag.
func ForFlag(bigEndian bool) EndianEngine {
	if bigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Name returns "big" or "little".
func Name(engine EndianEngine) string {
	if IsBigEndian(engine) {
		return "big"
	}

	return "little"
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

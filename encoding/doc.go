// Package encoding turns column values into flat byte payloads and back.
//
// Two layouts cover every column type:
//
//   - Fixed-width: each value occupies FixedCodec.Width bytes in the byte
//     order chosen by an endian.EndianEngine. Numbers, booleans, temporal
//     values and dictionary codes use this layout.
//   - Variable strings: each string is a uvarint byte length followed by
//     its bytes.
//
// Encoders write into pooled buffers; call Finish to release them. Decoders
// are stateless values and safe for concurrent use.
package encoding

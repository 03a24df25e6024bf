package encoding

// ColumnarEncoder accumulates values of one column.
type ColumnarEncoder[T any] interface {
	// Bytes returns the encoded payload.
	Bytes() []byte
	// Len returns the number of values written.
	Len() int
	// Size returns the payload size in bytes.
	Size() int
	// Reset discards written values.
	Reset()
	// Finish releases pooled resources.
	Finish()
	// Write appends a value.
	Write(v T)
	// WriteSlice appends values in order.
	WriteSlice(values []T)
}

// ColumnarDecoder reads a whole column back from an encoded payload.
type ColumnarDecoder[T any] interface {
	// Decode returns exactly count values. A payload that does not hold
	// exactly count values is an error.
	Decode(data []byte, count int) ([]T, error)
}

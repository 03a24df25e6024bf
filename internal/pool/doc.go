// Package pool provides sync.Pool backed buffers for column encoding,
// row-key construction and numeric scratch space.
package pool

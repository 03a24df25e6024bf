// Package hash wraps xxHash64 for row keys and column checksums.
package hash

import (
	"encoding/hex"
	"hash"

	"github.com/cespare/xxhash/v2"
)

// Bytes computes the xxHash64 of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Digest is a streaming checksum. Writes never fail.
type Digest interface {
	hash.Hash64
	// Hex returns the current sum as 16 lowercase hex digits.
	Hex() string
}

type digest struct {
	*xxhash.Digest
}

// NewDigest returns an empty streaming checksum.
func NewDigest() Digest {
	return digest{Digest: xxhash.New()}
}

func (d digest) Hex() string {
	return hex.EncodeToString(d.Sum(nil))
}

// Checksum returns the hex checksum of b, equal to what a Digest fed b produces.
func Checksum(b []byte) string {
	d := NewDigest()
	_, _ = d.Write(b)

	return d.Hex()
}

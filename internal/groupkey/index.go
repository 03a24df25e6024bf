// Package groupkey assigns dense group ids to composite row keys.
//
// Keys are bucketed by their xxHash64. Two different keys that share a hash
// land in the same bucket and are told apart by byte comparison, so a
// collision costs one extra compare and never merges groups.
package groupkey

import (
	"bytes"

	"github.com/arloliu/coltab/internal/hash"
)

// Index maps key bytes to group ids in first-seen order.
type Index struct {
	hashFn     func([]byte) uint64
	buckets    map[uint64][]int
	keys       [][]byte
	collisions int
}

// New creates an empty index.
func New() *Index {
	return newWithHash(hash.Bytes)
}

func newWithHash(fn func([]byte) uint64) *Index {
	return &Index{
		hashFn:  fn,
		buckets: make(map[uint64][]int),
	}
}

// Lookup returns the group id of key, assigning the next id when the key is
// new. The index keeps its own copy of key, so callers may reuse the slice.
func (x *Index) Lookup(key []byte) (id int, created bool) {
	h := x.hashFn(key)
	bucket := x.buckets[h]
	for _, gid := range bucket {
		if bytes.Equal(x.keys[gid], key) {
			return gid, false
		}
	}
	if len(bucket) > 0 {
		x.collisions++
	}

	id = len(x.keys)
	x.keys = append(x.keys, bytes.Clone(key))
	x.buckets[h] = append(bucket, id)

	return id, true
}

// Len returns the number of distinct keys.
func (x *Index) Len() int {
	return len(x.keys)
}

// Key returns the key bytes of group id.
func (x *Index) Key(id int) []byte {
	return x.keys[id]
}

// Collisions returns how many distinct keys landed in an occupied bucket.
func (x *Index) Collisions() int {
	return x.collisions
}

// Reset clears the index and keeps its allocated capacity.
func (x *Index) Reset() {
	clear(x.buckets)
	x.keys = x.keys[:0]
	x.collisions = 0
}

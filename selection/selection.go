// Package selection provides a compact, ordered set of row indices.
//
// A Selection is the result of evaluating a filter against a table and the
// input of every row-subsetting operation. It is backed by a compressed
// roaring bitmap, so a selection over hundreds of millions of rows stays small
// when its members cluster in runs, and the set algebra (And, Or, AndNot) runs
// container by container instead of row by row.
//
// Row indices are non-negative and must fit in 32 bits. Iteration is always
// ascending and never yields duplicates.
//
// The algebra methods And, Or and AndNot modify the receiver in place and
// return it, allowing chaining:
//
//	sel := selection.WithRange(0, 100).AndNot(selection.Of(3, 5)).Or(other)
//
// Use Clone, or the pure helpers Union, Intersection and Difference, when the
// operands must be preserved.
package selection

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Selection is an ordered, deduplicated set of row indices.
//
// The zero value is not usable; create selections with New, Of or WithRange.
type Selection struct {
	bm *roaring.Bitmap
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{bm: roaring.New()}
}

// Of returns a selection holding the given row indices.
func Of(indices ...int) *Selection {
	return New().Add(indices...)
}

// WithRange returns a selection holding every index in [lo, hi).
func WithRange(lo, hi int) *Selection {
	return New().AddRange(lo, hi)
}

func toIndex(i int) uint32 {
	if i < 0 || i > math.MaxUint32 {
		panic(fmt.Sprintf("selection: row index %d out of range", i))
	}

	return uint32(i)
}

// Add inserts the given row indices. It panics on negative indices.
func (s *Selection) Add(indices ...int) *Selection {
	for _, i := range indices {
		s.bm.Add(toIndex(i))
	}

	return s
}

// AddRange inserts every index in the half-open range [lo, hi).
func (s *Selection) AddRange(lo, hi int) *Selection {
	if hi <= lo {
		return s
	}
	toIndex(lo)
	s.bm.AddRange(uint64(lo), uint64(hi))

	return s
}

// Remove deletes a row index if present.
func (s *Selection) Remove(i int) *Selection {
	if i >= 0 && i <= math.MaxUint32 {
		s.bm.Remove(uint32(i))
	}

	return s
}

// Contains reports whether row index i is a member.
func (s *Selection) Contains(i int) bool {
	if i < 0 || i > math.MaxUint32 {
		return false
	}

	return s.bm.Contains(uint32(i))
}

// Size returns the number of members.
func (s *Selection) Size() int {
	return int(s.bm.GetCardinality()) //nolint:gosec
}

// IsEmpty reports whether the selection has no members.
func (s *Selection) IsEmpty() bool {
	return s.bm.IsEmpty()
}

// And keeps only the members also present in other (intersection).
func (s *Selection) And(other *Selection) *Selection {
	s.bm.And(other.bm)
	return s
}

// Or adds every member of other (union).
func (s *Selection) Or(other *Selection) *Selection {
	s.bm.Or(other.bm)
	return s
}

// AndNot removes every member of other (set difference).
func (s *Selection) AndNot(other *Selection) *Selection {
	s.bm.AndNot(other.bm)
	return s
}

// Complement returns a new selection holding every index in [0, rowCount) that
// is not a member of s. Members at or beyond rowCount are never part of the result.
func (s *Selection) Complement(rowCount int) *Selection {
	out := s.Clone()
	if rowCount <= 0 {
		out.bm.Clear()
		return out
	}
	out.bm.RemoveRange(uint64(rowCount), math.MaxUint32+1)
	out.bm.Flip(0, uint64(rowCount))

	return out
}

// Clamp returns s when every member is below rowCount, and otherwise a new
// selection without the members at or beyond rowCount.
func (s *Selection) Clamp(rowCount int) *Selection {
	if m, ok := s.Max(); !ok || m < rowCount {
		return s
	}
	out := s.Clone()
	out.bm.RemoveRange(uint64(max(rowCount, 0)), math.MaxUint32+1)

	return out
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return &Selection{bm: s.bm.Clone()}
}

// All returns an iterator over the members in ascending order. The iterator
// can be ranged over any number of times.
func (s *Selection) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it := s.bm.Iterator()
		for it.HasNext() {
			if !yield(int(it.Next())) {
				return
			}
		}
	}
}

// Slice returns the members as an ascending slice.
func (s *Selection) Slice() []int {
	out := make([]int, 0, s.Size())
	for i := range s.All() {
		out = append(out, i)
	}

	return out
}

// Get returns the k-th smallest member (zero-based). It panics if k is out of range.
func (s *Selection) Get(k int) int {
	v, err := s.bm.Select(toIndex(k))
	if err != nil {
		panic(fmt.Sprintf("selection: %v", err))
	}

	return int(v)
}

// Min returns the smallest member; ok is false for an empty selection.
func (s *Selection) Min() (int, bool) {
	if s.bm.IsEmpty() {
		return 0, false
	}

	return int(s.bm.Minimum()), true
}

// Max returns the largest member; ok is false for an empty selection.
func (s *Selection) Max() (int, bool) {
	if s.bm.IsEmpty() {
		return 0, false
	}

	return int(s.bm.Maximum()), true
}

// Equal reports whether both selections have exactly the same members.
func (s *Selection) Equal(other *Selection) bool {
	return s.bm.Equals(other.bm)
}

// Optimize converts dense runs to run-length containers, shrinking memory for
// selections that will be kept around.
func (s *Selection) Optimize() *Selection {
	s.bm.RunOptimize()
	return s
}

func (s *Selection) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	n := 0
	for i := range s.All() {
		if n > 0 {
			sb.WriteString(", ")
		}
		if n == 20 {
			fmt.Fprintf(&sb, "... %d more", s.Size()-n)
			break
		}
		fmt.Fprintf(&sb, "%d", i)
		n++
	}
	sb.WriteByte('}')

	return sb.String()
}

// Union returns a new selection holding the members of every input.
func Union(sels ...*Selection) *Selection {
	bms := make([]*roaring.Bitmap, 0, len(sels))
	for _, s := range sels {
		bms = append(bms, s.bm)
	}

	return &Selection{bm: roaring.FastOr(bms...)}
}

// Intersection returns a new selection holding the members common to every input.
// With no inputs it returns an empty selection.
func Intersection(sels ...*Selection) *Selection {
	if len(sels) == 0 {
		return New()
	}
	out := sels[0].Clone()
	for _, s := range sels[1:] {
		out.And(s)
	}

	return out
}

// Difference returns a new selection holding the members of a that are not in b.
func Difference(a, b *Selection) *Selection {
	return &Selection{bm: roaring.AndNot(a.bm, b.bm)}
}

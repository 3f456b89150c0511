// Package indexset implements the small ordered-set-of-indices algebra
// consumed by the modulus-chain subsystem: role sets, digit partitions,
// and the subsets enumerated by the ModuliSizes table are all IndexSet
// values.
package indexset

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// IndexSet is an ordered set of distinct non-negative indices. The zero
// value is the empty set. IndexSet is a value type: every mutating
// method returns a new IndexSet rather than aliasing the receiver's
// backing array, so callers may freely share a set across ModuliSizes
// entries.
type IndexSet[T constraints.Integer] struct {
	idx []T
}

// New returns the IndexSet containing exactly the given indices.
func New[T constraints.Integer](indices ...T) IndexSet[T] {
	s := IndexSet[T]{}
	for _, i := range indices {
		s = s.Add(i)
	}
	return s
}

// Range returns the IndexSet containing the contiguous range [from, to).
func Range[T constraints.Integer](from, to T) IndexSet[T] {
	if to <= from {
		return IndexSet[T]{}
	}
	idx := make([]T, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return IndexSet[T]{idx: idx}
}

// Card returns the cardinality of the set.
func (s IndexSet[T]) Card() int {
	return len(s.idx)
}

// Contains reports whether i belongs to the set.
func (s IndexSet[T]) Contains(i T) bool {
	_, ok := s.search(i)
	return ok
}

func (s IndexSet[T]) search(i T) (int, bool) {
	n := len(s.idx)
	pos := sort.Search(n, func(j int) bool { return s.idx[j] >= i })
	return pos, pos < n && s.idx[pos] == i
}

// Add returns a new set with i inserted.
func (s IndexSet[T]) Add(i T) IndexSet[T] {
	pos, ok := s.search(i)
	if ok {
		return s
	}
	idx := make([]T, 0, len(s.idx)+1)
	idx = append(idx, s.idx[:pos]...)
	idx = append(idx, i)
	idx = append(idx, s.idx[pos:]...)
	return IndexSet[T]{idx: idx}
}

// AddRange returns a new set with the contiguous range [from, to)
// inserted, i.e. s union Range(from, to).
func (s IndexSet[T]) AddRange(from, to T) IndexSet[T] {
	return s.Union(Range(from, to))
}

// Union returns s ∪ other.
func (s IndexSet[T]) Union(other IndexSet[T]) IndexSet[T] {
	out := make([]T, 0, len(s.idx)+len(other.idx))
	i, j := 0, 0
	for i < len(s.idx) && j < len(other.idx) {
		switch {
		case s.idx[i] < other.idx[j]:
			out = append(out, s.idx[i])
			i++
		case s.idx[i] > other.idx[j]:
			out = append(out, other.idx[j])
			j++
		default:
			out = append(out, s.idx[i])
			i++
			j++
		}
	}
	out = append(out, s.idx[i:]...)
	out = append(out, other.idx[j:]...)
	return IndexSet[T]{idx: out}
}

// Intersect returns s ∩ other.
func (s IndexSet[T]) Intersect(other IndexSet[T]) IndexSet[T] {
	var out []T
	i, j := 0, 0
	for i < len(s.idx) && j < len(other.idx) {
		switch {
		case s.idx[i] < other.idx[j]:
			i++
		case s.idx[i] > other.idx[j]:
			j++
		default:
			out = append(out, s.idx[i])
			i++
			j++
		}
	}
	return IndexSet[T]{idx: out}
}

// Diff returns s \ other.
func (s IndexSet[T]) Diff(other IndexSet[T]) IndexSet[T] {
	var out []T
	i, j := 0, 0
	for i < len(s.idx) {
		for j < len(other.idx) && other.idx[j] < s.idx[i] {
			j++
		}
		if j < len(other.idx) && other.idx[j] == s.idx[i] {
			i++
			continue
		}
		out = append(out, s.idx[i])
		i++
	}
	return IndexSet[T]{idx: out}
}

// First returns the smallest index in the set and true, or the zero
// value and false if the set is empty.
func (s IndexSet[T]) First() (T, bool) {
	if len(s.idx) == 0 {
		var zero T
		return zero, false
	}
	return s.idx[0], true
}

// Last returns the largest index in the set and true, or the zero value
// and false if the set is empty.
func (s IndexSet[T]) Last() (T, bool) {
	if len(s.idx) == 0 {
		var zero T
		return zero, false
	}
	return s.idx[len(s.idx)-1], true
}

// Next returns the smallest index strictly greater than i, and true, or
// the zero value and false if no such index exists.
func (s IndexSet[T]) Next(i T) (T, bool) {
	pos, ok := s.search(i)
	if ok {
		pos++
	}
	if pos >= len(s.idx) {
		var zero T
		return zero, false
	}
	return s.idx[pos], true
}

// Elements returns the set's indices in ascending order. The returned
// slice must not be mutated by the caller.
func (s IndexSet[T]) Elements() []T {
	return s.idx
}

// Equal reports whether s and other contain the same indices.
func (s IndexSet[T]) Equal(other IndexSet[T]) bool {
	if len(s.idx) != len(other.idx) {
		return false
	}
	for i := range s.idx {
		if s.idx[i] != other.idx[i] {
			return false
		}
	}
	return true
}

// Less provides a lexicographic order on IndexSets, used as the tie
// breaker when sorting ModuliSizes entries with equal size.
func (s IndexSet[T]) Less(other IndexSet[T]) bool {
	for i := 0; i < len(s.idx) && i < len(other.idx); i++ {
		if s.idx[i] != other.idx[i] {
			return s.idx[i] < other.idx[i]
		}
	}
	return len(s.idx) < len(other.idx)
}

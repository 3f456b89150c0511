package indexset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndContains(t *testing.T) {
	s := New[int]()
	require.Equal(t, 0, s.Card())

	s = s.Add(3).Add(1).Add(2).Add(1)
	require.Equal(t, 3, s.Card())
	require.Equal(t, []int{1, 2, 3}, s.Elements())
	require.True(t, s.Contains(2))
	require.False(t, s.Contains(5))
}

func TestRangeAndAddRange(t *testing.T) {
	r := Range[int](2, 5)
	require.Equal(t, []int{2, 3, 4}, r.Elements())

	s := New[int](0).AddRange(2, 5)
	require.Equal(t, []int{0, 2, 3, 4}, s.Elements())

	require.Equal(t, 0, Range[int](5, 5).Card())
	require.Equal(t, 0, Range[int](5, 2).Card())
}

func TestUnionIntersectDiff(t *testing.T) {
	a := New[int](1, 2, 3)
	b := New[int](2, 3, 4)

	require.Equal(t, []int{1, 2, 3, 4}, a.Union(b).Elements())
	require.Equal(t, []int{2, 3}, a.Intersect(b).Elements())
	require.Equal(t, []int{1}, a.Diff(b).Elements())
	require.Equal(t, []int{4}, b.Diff(a).Elements())
}

func TestFirstNextLast(t *testing.T) {
	s := New[int](5, 1, 9)

	first, ok := s.First()
	require.True(t, ok)
	require.Equal(t, 1, first)

	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, 9, last)

	n, ok := s.Next(1)
	require.True(t, ok)
	require.Equal(t, 5, n)

	_, ok = s.Next(9)
	require.False(t, ok)

	_, ok = New[int]().First()
	require.False(t, ok)
}

func TestEqualAndLess(t *testing.T) {
	a := New[int](1, 2)
	b := New[int](2, 1)
	require.True(t, a.Equal(b))

	c := New[int](1, 3)
	require.True(t, a.Less(c))
	require.False(t, c.Less(a))
}

package ring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNTTFriendlyPrimesGenerator_BadParameters(t *testing.T) {
	t.Run("LenTooSmall", func(t *testing.T) {
		_, err := NewNTTFriendlyPrimesGenerator(1, 16384, 60)
		require.Error(t, err)
	})

	t.Run("LenAboveBound", func(t *testing.T) {
		_, err := NewNTTFriendlyPrimesGenerator(61, 16384, 60)
		require.Error(t, err)
	})

	t.Run("MZero", func(t *testing.T) {
		_, err := NewNTTFriendlyPrimesGenerator(22, 0, 60)
		require.Error(t, err)
	})

	t.Run("MTooLarge", func(t *testing.T) {
		_, err := NewNTTFriendlyPrimesGenerator(22, 1<<60, 60)
		require.Error(t, err)
	})
}

func TestPrimesGenerator_Contract(t *testing.T) {
	const len = 22
	const m = 16384

	g, err := NewNTTFriendlyPrimesGenerator(len, m, 60)
	require.NoError(t, err)

	lo := uint64(3) << (len - 2)
	hi := uint64(1) << len

	seen := map[uint64]bool{}
	for i := 0; i < 5; i++ {
		p, err := g.Next()
		require.NoError(t, err)

		require.GreaterOrEqual(t, p, lo)
		require.Less(t, p, hi)
		require.Zero(t, (p-1)%m, "prime %d must be 1 mod m", p)
		require.True(t, IsPrime(p))

		require.False(t, seen[p], "generator must not repeat a prime")
		seen[p] = true
	}
}

func TestPrimesGenerator_IdenticalAcrossGenerators(t *testing.T) {
	g1, err := NewNTTFriendlyPrimesGenerator(22, 16384, 60)
	require.NoError(t, err)
	g2, err := NewNTTFriendlyPrimesGenerator(22, 16384, 60)
	require.NoError(t, err)

	p1, err := g1.NextAlternatingPrimes(3)
	require.NoError(t, err)
	p2, err := g2.NextAlternatingPrimes(3)
	require.NoError(t, err)

	require.Equal(t, p1, p2, "two generators with identical parameters must produce identical sequences")
}

func TestPrimesGenerator_Exhausted(t *testing.T) {
	// A tiny bit-length bucket exhausts quickly.
	g, err := NewNTTFriendlyPrimesGenerator(4, 2, 60)
	require.NoError(t, err)

	var lastErr error
	for i := 0; i < 1000; i++ {
		if _, lastErr = g.Next(); lastErr != nil {
			break
		}
	}
	require.True(t, errors.Is(lastErr, ErrExhausted))
}

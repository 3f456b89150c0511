package moduli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testPlatform() Platform {
	return Platform{MaxModulusBits: 30}
}

func TestAddSmallPrimesPopulatesOnlySmallRole(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddSmallPrimes(ctx, 3))
	require.Greater(t, ctx.SmallPrimes().Card(), 0)
	require.Equal(t, 0, ctx.CtxtPrimes().Card())
	require.Equal(t, 0, ctx.SpecialPrimes().Card())

	for _, i := range ctx.SmallPrimes().Elements() {
		q, ok := ctx.IthPrime(i)
		require.True(t, ok)
		require.Equal(t, uint64(1), q%8192)
	}
}

func TestAddSmallPrimesRejectsBadM(t *testing.T) {
	ctx := NewContext(newTestParams(0, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())
	require.ErrorIs(t, cb.AddSmallPrimes(ctx, 3), ErrBadParameter)
}

func TestAddSmallPrimesRejectsLowPlatform(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(Platform{MaxModulusBits: 20})
	require.ErrorIs(t, cb.AddSmallPrimes(ctx, 3), ErrBadParameter)
}

func TestChainRolesAreDisjoint(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddSmallPrimes(ctx, 3))
	require.NoError(t, cb.AddCtxtPrimes(ctx, 60))
	require.NoError(t, cb.AddSpecialPrimes(ctx, 2, false))

	require.Equal(t, 0, ctx.SmallPrimes().Intersect(ctx.CtxtPrimes()).Card())
	require.Equal(t, 0, ctx.SmallPrimes().Intersect(ctx.SpecialPrimes()).Card())
	require.Equal(t, 0, ctx.CtxtPrimes().Intersect(ctx.SpecialPrimes()).Card())
}

func TestAddCtxtPrimesReachesRequestedBits(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddCtxtPrimes(ctx, 45))

	var sum float64
	for _, i := range ctx.CtxtPrimes().Elements() {
		q, _ := ctx.IthPrime(i)
		sum += log2(q)
	}
	require.GreaterOrEqual(t, sum, 45.0)
}

func log2(q uint64) float64 {
	n := 0.0
	f := float64(q)
	for f > 1 {
		f /= 2
		n++
	}
	return n
}

func TestAddSpecialPrimesRequiresCtxtPrimesFirst(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())
	require.ErrorIs(t, cb.AddSpecialPrimes(ctx, 2, false), ErrBadParameter)
}

func TestAddSpecialPrimesBuildsDigitPartition(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddCtxtPrimes(ctx, 80))
	require.NoError(t, cb.AddSpecialPrimes(ctx, 3, false))

	digits := ctx.Digits()
	require.NotEmpty(t, digits)
	require.LessOrEqual(t, len(digits), 3)

	union := digits[0]
	for _, d := range digits[1:] {
		require.Equal(t, 0, union.Intersect(d).Card())
		union = union.Union(d)
	}
	require.True(t, union.Equal(ctx.CtxtPrimes()))

	require.Greater(t, ctx.SpecialPrimes().Card(), 0)

	balance, err := ctx.DigitLogBalance()
	require.NoError(t, err)
	require.GreaterOrEqual(t, balance, 0.0)
}

func TestAddSpecialPrimesRequiresOracleWhenBootstrappable(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())
	require.NoError(t, cb.AddCtxtPrimes(ctx, 60))
	require.ErrorIs(t, cb.AddSpecialPrimes(ctx, 2, true), ErrBadParameter)
}

func TestAddSpecialPrimesBootstrappableConsultsOracle(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), testOracle{alpha: 2, e: 3, ePrime: 1}, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddCtxtPrimes(ctx, 60))
	require.NoError(t, cb.AddSpecialPrimes(ctx, 2, true))
	require.Greater(t, ctx.SpecialPrimes().Card(), 0)
}

func TestModuliSizesEqualAndContextEqual(t *testing.T) {
	ctx1 := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	ctx2 := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	cb := NewChainBuilder(testPlatform())

	require.NoError(t, cb.AddSmallPrimes(ctx1, 3))
	require.NoError(t, cb.AddSmallPrimes(ctx2, 3))
	require.True(t, ctx1.Equal(ctx2))

	sizes1, err := NewModuliSizes(ctx1)
	require.NoError(t, err)
	sizes2, err := NewModuliSizes(ctx2)
	require.NoError(t, err)
	require.True(t, sizes1.Equal(sizes2))

	require.NoError(t, cb.AddCtxtPrimes(ctx2, 30))
	require.False(t, ctx1.Equal(ctx2))
}

func TestBuildModChainProducesCompleteTable(t *testing.T) {
	ctx := NewContext(newTestParams(8192, 65537, 1), nil, 3.2)
	platform := testPlatform()

	sizes, err := BuildModChain(ctx, platform, 50, 2, false, 3)
	require.NoError(t, err)

	want := 1
	for i := 0; i < ctx.SmallPrimes().Card(); i++ {
		want *= 2
	}
	want *= ctx.CtxtPrimes().Card() + 1

	require.Equal(t, want, sizes.Len())

	for i := 1; i < sizes.Len(); i++ {
		require.LessOrEqual(t, sizes.Size(i-1), sizes.Size(i))
	}
}

// Package bignum holds the arbitrary-precision numeric helpers the
// modulus-chain subsystem needs (see core/moduli), the way lattigo's own
// utils/bignum hosts the arbitrary-precision arithmetic its evaluators
// build on.
package bignum

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// LogOfProduct returns the natural logarithm of the product of primes.
// Products of a chain's worth of 60-bit primes quickly exceed float64's
// exponent range (eighteen of them already overflow it), so the product
// is accumulated as a big.Int and its log taken through big.Float via
// bigfloat.Log rather than summing math.Log(float64(q)) directly for
// very large sets; summing individual logs (as LogOfPrimes below does)
// is equivalent in theory but accumulates more rounding error over long
// chains, which is why ModuliSizes tables (built entry-by-entry from a
// running sum) and Context.LogOfProduct (recomputed from the prime set)
// intentionally take different paths to the same quantity.
func LogOfProduct(primes []uint64) float64 {
	if len(primes) == 0 {
		return 0
	}

	prod := new(big.Int).SetUint64(1)
	q := new(big.Int)
	for _, p := range primes {
		prod.Mul(prod, q.SetUint64(p))
	}

	f := new(big.Float).SetPrec(256).SetInt(prod)
	l := bigfloat.Log(f)
	v, _ := l.Float64()
	return v
}

// LogOfBigInt returns the natural logarithm of an arbitrary-precision
// integer, for quantities (like p^r or p^(e-e')) that are never a
// product of primes but can still exceed float64's exponent range.
func LogOfBigInt(v *big.Int) float64 {
	f := new(big.Float).SetPrec(256).SetInt(v)
	l := bigfloat.Log(f)
	r, _ := l.Float64()
	return r
}

// LogOfPrimes returns the sum of the natural logarithms of primes,
// computed term-by-term in float64. Each term converts to float64
// without overflow (primes here are at most Platform.MaxModulusBits
// bits; above 53 bits the conversion rounds), so this is the natural
// accumulator where the table is built
// incrementally from a running sum rather than from a full product.
func LogOfPrimes(primes ...uint64) float64 {
	var sum float64
	for _, p := range primes {
		sum += math.Log(float64(p))
	}
	return sum
}

package ring

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by PrimesGenerator.Next when no further
// prime of the requested shape exists within the generator's bit-length
// bucket.
var ErrExhausted = errors.New("ring: prime generator exhausted")

// PrimesGenerator produces primes p = 2^k*t*m+1 of bit-length in
// [3/4 * 2^len, 2^len), with k chosen maximal (subject to
// 2^k*m <= 2^(len-2)) and t odd, so that the NTT over the m-th
// cyclotomic ring is well-defined modulo p.
//
// A generator is stateful: each call to Next scans t upward within the
// current k and, once t exhausts that window, decrements k and resumes
// from a freshly computed t-window. Successive calls therefore never
// repeat a prime.
type PrimesGenerator struct {
	len uint64
	m   uint64
	k   int64
	t   uint64
}

// NewNTTFriendlyPrimesGenerator returns a generator of primes with
// bit-length in [3/4*2^len, 2^len) congruent to 1 modulo 2^k*m for a
// maximal k. len must be in [2, maxModulusBits] and m must be in
// (0, maxModulusBound) for the returned generator to be usable; violating
// either reports a descriptive error instead of panicking, since this
// constructor is commonly reached from user-supplied moduli-chain sizes.
func NewNTTFriendlyPrimesGenerator(len, m uint64, maxModulusBits uint64) (*PrimesGenerator, error) {
	if len < 2 || len > maxModulusBits {
		return nil, fmt.Errorf("ring: invalid prime generator length %d (must be in [2, %d])", len, maxModulusBits)
	}

	maxModulusBound := uint64(1) << maxModulusBits
	if m == 0 || m >= maxModulusBound {
		return nil, fmt.Errorf("ring: invalid prime generator m=%d (must be in (0, %d))", m, maxModulusBound)
	}

	g := &PrimesGenerator{len: len, m: m}

	// smallest k such that 2^k*m > 2^(len-2)
	threshold := uint64(1) << (len - 2)
	for (uint64(1)<<uint64(g.k))*m <= threshold {
		g.k++
	}

	// t=8 is guaranteed to exceed the first t-window's upper bound
	// (which, by construction of k above, is small), forcing a
	// k-decrement on the first call to Next.
	g.t = 8

	return g, nil
}

// lowerBoundK returns the smallest admissible k: 0 when m is even
// (2^k*m stays even for k=0), 1 when m is odd (k=0 would make
// 2^k*t*m+1 = t*m+1 even for odd t*m, never prime beyond 2).
func (g *PrimesGenerator) lowerBoundK() int64 {
	if g.m%2 == 0 {
		return 0
	}
	return 1
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// Next returns the next prime satisfying the generator's contract, or
// ErrExhausted once the bit-length bucket has been fully scanned.
func (g *PrimesGenerator) Next() (uint64, error) {
	for {
		denom := (uint64(1) << uint64(g.k)) * g.m
		tub := ceilDiv((uint64(1)<<g.len)-1, denom)

		g.t++

		if g.t >= tub {
			g.k--

			if g.k < g.lowerBoundK() {
				return 0, ErrExhausted
			}

			denom = (uint64(1) << uint64(g.k)) * g.m
			g.t = ceilDiv(3*(uint64(1)<<(g.len-2))-1, denom)
		}

		if g.t%2 == 0 {
			continue
		}

		cand := denom*g.t + 1

		if !IsPrime(cand) {
			continue
		}

		return cand, nil
	}
}

// NextAlternatingPrimes returns the next n primes from the generator, in
// the order Next emits them (ascending t within descending k buckets).
// On error it returns the primes found so far together with the error.
func (g *PrimesGenerator) NextAlternatingPrimes(n int) ([]uint64, error) {
	primes := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.Next()
		if err != nil {
			return primes, err
		}
		primes = append(primes, p)
	}
	return primes, nil
}

// NextDownstreamPrimes is NextAlternatingPrimes under another name: it
// returns the next n primes in the same order Next emits them, which is
// ascending within each k bucket and not monotone across buckets.
func (g *PrimesGenerator) NextDownstreamPrimes(n int) ([]uint64, error) {
	return g.NextAlternatingPrimes(n)
}

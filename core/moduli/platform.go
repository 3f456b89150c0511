// Package moduli builds and queries the RNS modulus chain: the prime
// generation and partitioning rules of ChainBuilder (small/ciphertext/
// special roles, key-switching digits), and the ModuliSizes table used
// to pick a prime subset of a requested size at runtime.
package moduli

// Platform carries the single-precision bit-length capability that
// would otherwise live in process-wide constants. Passing it explicitly
// removes that global state and lets tests exercise more than one
// platform shape.
type Platform struct {
	// MaxModulusBits is the largest bit-length a single RNS prime may
	// have.
	MaxModulusBits uint64
}

// MaxModulusBound returns 2^MaxModulusBits: the open upper bound on m
// accepted by the prime generator.
func (p Platform) MaxModulusBound() uint64 {
	return uint64(1) << p.MaxModulusBits
}

// DefaultPlatform returns the capability lattigo itself targets:
// 60-bit single-precision moduli (rlwe.MaxModuliSize).
func DefaultPlatform() Platform {
	return Platform{MaxModulusBits: 60}
}

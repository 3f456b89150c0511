package ring

import "math/big"

// millerRabinRounds is the number of Miller-Rabin rounds run on top of
// big.Int's baseline Baillie-PSW test, giving an error probability of
// at most 2^-120 for any composite candidate that reaches the test.
const millerRabinRounds = 60

// IsPrime returns true if value is prime. It is exact for all uint64
// values: big.Int.ProbablyPrime(0) alone is a deterministic test below
// 2^64, and the extra Miller-Rabin rounds only add margin for values
// generated by code that might one day relax that bound.
func IsPrime(value uint64) bool {
	return new(big.Int).SetUint64(value).ProbablyPrime(millerRabinRounds)
}

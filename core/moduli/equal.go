package moduli

import "github.com/google/go-cmp/cmp"

// Equal reports whether c and other have registered the same primes
// under the same roles with the same digit partition, the way
// rlwe.Parameters.Equal compares its own slice/struct fields with
// cmp.Equal rather than a hand-rolled field-by-field walk.
func (c *Context) Equal(other *Context) bool {
	return cmp.Equal(c.primes, other.primes) &&
		cmp.Equal(c.smallPrimes, other.smallPrimes) &&
		cmp.Equal(c.ctxtPrimes, other.ctxtPrimes) &&
		cmp.Equal(c.specialPrimes, other.specialPrimes) &&
		cmp.Equal(c.digits, other.digits)
}

// Equal reports whether m and other enumerate the same (size, set)
// entries in the same order.
func (m *ModuliSizes) Equal(other *ModuliSizes) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}
	for i := range m.entries {
		if m.entries[i].size != other.entries[i].size {
			return false
		}
		if !m.entries[i].set.Equal(other.entries[i].set) {
			return false
		}
	}
	return true
}

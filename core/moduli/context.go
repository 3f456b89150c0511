package moduli

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo-modchain/indexset"
	"github.com/tuneinsight/lattigo-modchain/ring"
	"github.com/tuneinsight/lattigo-modchain/utils/bignum"
)

// CyclotomicParams is the cyclotomic-ring collaborator this subsystem
// consumes but does not own: the cyclotomic order m, the plaintext
// modulus p, and p^r. Context only ever reads these three values; the
// algebra behind m, φ(m), and p lives with the caller's ring package.
type CyclotomicParams interface {
	M() uint64
	P() uint64
	Pr() *big.Int
}

// BootstrappingOracle supplies the (α, e, e′) triple used to size the
// bootstrapping margin folded into the special-prime budget. Derivation
// of these parameters belongs to the caller's bootstrapping package;
// this subsystem only calls SetAlphaE.
type BootstrappingOracle interface {
	SetAlphaE(ctx *Context) (alpha, e, ePrime int, err error)
}

// Context owns the registered primes of a modulus chain and the three
// disjoint role sets (smallPrimes, ctxtPrimes, specialPrimes) that
// partition them, plus the key-switching digit partition computed over
// ctxtPrimes. All mutation happens during ChainBuilder's three passes;
// once built, a Context is read-only and safe for concurrent readers.
type Context struct {
	params CyclotomicParams
	oracle BootstrappingOracle
	stdev  float64

	primes []uint64
	tables []*ring.Table

	smallPrimes   indexset.IndexSet[int]
	ctxtPrimes    indexset.IndexSet[int]
	specialPrimes indexset.IndexSet[int]

	digits []indexset.IndexSet[int]
}

// NewContext returns an empty Context ready for ChainBuilder's passes.
// stdev is the error distribution's standard deviation used to size the
// special-prime budget; oracle may be nil if the chain will never be
// built with willBeBootstrappable=true.
func NewContext(params CyclotomicParams, oracle BootstrappingOracle, stdev float64) *Context {
	return &Context{params: params, oracle: oracle, stdev: stdev}
}

// Params returns the cyclotomic parameter collaborator.
func (c *Context) Params() CyclotomicParams { return c.params }

// Stdev returns the error distribution's standard deviation.
func (c *Context) Stdev() float64 { return c.stdev }

// InChain reports whether q has already been registered under any role.
func (c *Context) InChain(q uint64) bool {
	for _, p := range c.primes {
		if p == q {
			return true
		}
	}
	return false
}

// IthPrime returns the value of the prime registered at index i.
func (c *Context) IthPrime(i int) (uint64, bool) {
	if i < 0 || i >= len(c.primes) {
		return 0, false
	}
	return c.primes[i], true
}

func (c *Context) addPrime(q uint64) (int, error) {
	t, err := ring.NewTable(c.params.M(), q)
	if err != nil {
		return 0, fmt.Errorf("moduli: cannot register prime %d: %w", q, err)
	}
	idx := len(c.primes)
	c.primes = append(c.primes, q)
	c.tables = append(c.tables, t)
	return idx, nil
}

// AddSmallPrime registers q under the smallPrimes role. A q already
// present under any role is silently skipped, so ChainBuilder's passes
// can be composed and re-run without producing duplicates.
func (c *Context) AddSmallPrime(q uint64) error {
	if c.InChain(q) {
		return nil
	}
	idx, err := c.addPrime(q)
	if err != nil {
		return err
	}
	c.smallPrimes = c.smallPrimes.Add(idx)
	return nil
}

// AddCtxtPrime registers q under the ctxtPrimes role, subject to the
// same duplicate-skip rule as AddSmallPrime.
func (c *Context) AddCtxtPrime(q uint64) error {
	if c.InChain(q) {
		return nil
	}
	idx, err := c.addPrime(q)
	if err != nil {
		return err
	}
	c.ctxtPrimes = c.ctxtPrimes.Add(idx)
	return nil
}

// AddSpecialPrime registers q under the specialPrimes role, subject to
// the same duplicate-skip rule as AddSmallPrime.
func (c *Context) AddSpecialPrime(q uint64) error {
	if c.InChain(q) {
		return nil
	}
	idx, err := c.addPrime(q)
	if err != nil {
		return err
	}
	c.specialPrimes = c.specialPrimes.Add(idx)
	return nil
}

// SmallPrimes returns the registered small-prime indices.
func (c *Context) SmallPrimes() indexset.IndexSet[int] { return c.smallPrimes }

// CtxtPrimes returns the registered ciphertext-prime indices.
func (c *Context) CtxtPrimes() indexset.IndexSet[int] { return c.ctxtPrimes }

// SpecialPrimes returns the registered special-prime indices.
func (c *Context) SpecialPrimes() indexset.IndexSet[int] { return c.specialPrimes }

// Digits returns the key-switching digit partition of ctxtPrimes,
// computed by AddSpecialPrimes.
func (c *Context) Digits() []indexset.IndexSet[int] { return c.digits }

// SetDigits installs the digit partition. Called by AddSpecialPrimes.
func (c *Context) SetDigits(digits []indexset.IndexSet[int]) { c.digits = digits }

// LogOfProduct returns the natural logarithm of the product of the
// primes indexed by s.
func (c *Context) LogOfProduct(s indexset.IndexSet[int]) float64 {
	elems := s.Elements()
	primes := make([]uint64, len(elems))
	for i, idx := range elems {
		primes[i], _ = c.IthPrime(idx)
	}
	return bignum.LogOfProduct(primes)
}

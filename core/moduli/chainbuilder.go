package moduli

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/tuneinsight/lattigo-modchain/indexset"
	"github.com/tuneinsight/lattigo-modchain/ring"
	"github.com/tuneinsight/lattigo-modchain/utils/bignum"
)

// ChainBuilder orchestrates the three passes that populate a Context's
// prime chain and role sets. It carries only the Platform capability;
// all other state lives on the Context itself.
type ChainBuilder struct {
	Platform Platform
}

// NewChainBuilder returns a ChainBuilder targeting the given platform.
func NewChainBuilder(platform Platform) ChainBuilder {
	return ChainBuilder{Platform: platform}
}

// AddSmallPrimes populates ctx's smallPrimes role with coarse-grained
// sizing primes derived from resolution.
func (cb ChainBuilder) AddSmallPrimes(ctx *Context, resolution int) error {
	m := ctx.params.M()
	if m == 0 || m > (1<<20) {
		return fmt.Errorf("%w: m=%d must be in (0, 2^20]", ErrBadParameter, m)
	}

	if resolution < 1 || resolution > 10 {
		resolution = 3
	}

	nbits := int(cb.Platform.MaxModulusBits)

	var floor int
	switch {
	case nbits >= 60:
		floor = 40
	case nbits >= 50:
		floor = 35
	case nbits >= 30:
		floor = 22
	default:
		return fmt.Errorf("%w: platform MaxModulusBits=%d must be >= 30", ErrBadParameter, nbits)
	}

	copies := 2
	if nbits >= 30 && nbits < 50 {
		copies = 3
	}

	sizes := make([]int, 0, copies+4)
	for i := 0; i < copies; i++ {
		sizes = append(sizes, floor)
	}

	for delta := resolution; ; delta *= 2 {
		v := nbits - delta
		if v <= floor {
			break
		}
		sizes = append(sizes, v)
	}

	if v := nbits - 3*resolution; v > floor {
		sizes = append(sizes, v)
	}

	if resolution == 1 {
		if v := nbits - 11; v > floor {
			sizes = append(sizes, v)
		}
	}

	sort.Ints(sizes)

	var gen *ring.PrimesGenerator
	prevSize := -1
	for _, size := range sizes {
		if gen == nil || size != prevSize {
			g, err := ring.NewNTTFriendlyPrimesGenerator(uint64(size), m, cb.Platform.MaxModulusBits)
			if err != nil {
				return fmt.Errorf("addSmallPrimes: %w", err)
			}
			gen = g
			prevSize = size
		}

		q, err := gen.Next()
		if err != nil {
			return fmt.Errorf("addSmallPrimes: %w", err)
		}

		if err := ctx.AddSmallPrime(q); err != nil {
			return err
		}
	}

	return nil
}

// AddCtxtPrimes populates ctx's ctxtPrimes role, generating primes at
// the platform's maximal bit-length until their log2-sum first reaches
// or exceeds nBits.
func (cb ChainBuilder) AddCtxtPrimes(ctx *Context, nBits float64) error {
	gen, err := ring.NewNTTFriendlyPrimesGenerator(cb.Platform.MaxModulusBits, ctx.params.M(), cb.Platform.MaxModulusBits)
	if err != nil {
		return fmt.Errorf("addCtxtPrimes: %w", err)
	}

	var sum float64
	for sum < nBits {
		q, err := gen.Next()
		if err != nil {
			return fmt.Errorf("addCtxtPrimes: %w", err)
		}

		wasNew := !ctx.InChain(q)
		if err := ctx.AddCtxtPrime(q); err != nil {
			return err
		}
		if wasNew {
			sum += math.Log2(float64(q))
		}
	}

	return nil
}

// AddSpecialPrimes computes the key-switching digit partition of
// ctxtPrimes and populates ctx's specialPrimes role with enough prime
// mass to cover key-switching noise growth.
func (cb ChainBuilder) AddSpecialPrimes(ctx *Context, nDgts int, willBeBootstrappable bool) error {
	if ctx.ctxtPrimes.Card() == 0 {
		return fmt.Errorf("%w: AddSpecialPrimes requires ctxtPrimes to be populated first", ErrBadParameter)
	}

	p2e := new(big.Int).Set(ctx.params.Pr())
	if willBeBootstrappable {
		if ctx.oracle == nil {
			return fmt.Errorf("%w: willBeBootstrappable requires a BootstrappingOracle", ErrBadParameter)
		}
		_, e, ePrime, err := ctx.oracle.SetAlphaE(ctx)
		if err != nil {
			return fmt.Errorf("addSpecialPrimes: %w", err)
		}
		if e > ePrime {
			pe := new(big.Int).Exp(new(big.Int).SetUint64(ctx.params.P()), big.NewInt(int64(e-ePrime)), nil)
			p2e.Mul(p2e, pe)
		}
	}

	if nDgts < 1 {
		nDgts = 1
	}
	if nDgts > ctx.ctxtPrimes.Card() {
		nDgts = ctx.ctxtPrimes.Card()
	}

	digits, maxDigitLog := cb.partitionDigits(ctx, nDgts)
	ctx.SetDigits(digits)
	nDgts = len(digits)

	logOfSpecialPrimes := maxDigitLog + math.Log(float64(nDgts)) + math.Log(2*ctx.stdev) + bignum.LogOfBigInt(p2e)

	totalBits := logOfSpecialPrimes / math.Log(2)
	numPrimes := int(math.Ceil(totalBits / float64(cb.Platform.MaxModulusBits)))
	if numPrimes < 1 {
		numPrimes = 1
	}
	nbits := int(math.Ceil(totalBits/float64(numPrimes))) + 1
	if nbits > int(cb.Platform.MaxModulusBits) {
		nbits = int(cb.Platform.MaxModulusBits)
	}
	if nbits < 2 {
		nbits = 2
	}

	gen, err := ring.NewNTTFriendlyPrimesGenerator(uint64(nbits), ctx.params.M(), cb.Platform.MaxModulusBits)
	if err != nil {
		return fmt.Errorf("addSpecialPrimes: %w", err)
	}

	var logSoFar float64
	for logSoFar < logOfSpecialPrimes {
		q, err := gen.Next()
		if err != nil {
			return fmt.Errorf("addSpecialPrimes: %w", err)
		}

		if ctx.InChain(q) {
			continue
		}

		if err := ctx.AddSpecialPrime(q); err != nil {
			return err
		}
		logSoFar += bignum.LogOfPrimes(q)
	}

	return nil
}

// partitionDigits splits ctxtPrimes into at most nDgts contiguous,
// ascending blocks with approximately equal log-products. It returns
// fewer blocks when the greedy fill uses up ctxtPrimes early; an empty
// trailing block is dropped.
func (cb ChainBuilder) partitionDigits(ctx *Context, nDgts int) ([]indexset.IndexSet[int], float64) {
	elems := ctx.ctxtPrimes.Elements()

	if nDgts == 1 {
		full := ctx.ctxtPrimes
		return []indexset.IndexSet[int]{full}, ctx.LogOfProduct(full)
	}

	totalLog := ctx.LogOfProduct(ctx.ctxtPrimes)
	dlog := totalLog / float64(nDgts)

	digits := make([]indexset.IndexSet[int], 0, nDgts)
	pos := 0
	target := dlog

	for d := 0; d < nDgts-1 && pos < len(elems); d++ {
		var cur indexset.IndexSet[int]
		var curLog float64

		for pos < len(elems) && (cur.Card() == 0 || curLog < target) {
			i := elems[pos]
			q, _ := ctx.IthPrime(i)
			cur = cur.Add(i)
			curLog += bignum.LogOfPrimes(q)
			pos++
		}

		digits = append(digits, cur)
		target += dlog
	}

	var last indexset.IndexSet[int]
	for ; pos < len(elems); pos++ {
		last = last.Add(elems[pos])
	}
	if last.Card() > 0 {
		digits = append(digits, last)
	}

	var maxDigitLog float64
	for _, d := range digits {
		if l := ctx.LogOfProduct(d); l > maxDigitLog {
			maxDigitLog = l
		}
	}

	return digits, maxDigitLog
}

// DigitLogBalance reports the standard deviation of the digit
// log-products, a diagnostic for how close AddSpecialPrimes came to its
// "roughly equal digit log-products" target. It is read-only and safe
// to call at any time after AddSpecialPrimes.
func (ctx *Context) DigitLogBalance() (float64, error) {
	if len(ctx.digits) == 0 {
		return 0, nil
	}

	logs := make(stats.Float64Data, len(ctx.digits))
	for i, d := range ctx.digits {
		logs[i] = ctx.LogOfProduct(d)
	}

	return stats.StandardDeviation(logs)
}

// BuildModChain is the convenience composition of the three add-passes
// followed by ModuliSizes materialization.
func BuildModChain(ctx *Context, platform Platform, nBits float64, nDgts int, willBeBootstrappable bool, resolution int) (*ModuliSizes, error) {
	cb := NewChainBuilder(platform)

	if err := cb.AddSmallPrimes(ctx, resolution); err != nil {
		return nil, err
	}
	if err := cb.AddCtxtPrimes(ctx, nBits); err != nil {
		return nil, err
	}
	if err := cb.AddSpecialPrimes(ctx, nDgts, willBeBootstrappable); err != nil {
		return nil, err
	}

	return NewModuliSizes(ctx)
}

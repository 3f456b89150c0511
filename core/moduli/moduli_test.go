package moduli

import "math/big"

// testParams is a minimal CyclotomicParams fake for tests: they only
// ever need a fixed (m, p, p^r) triple, never the ring algebra behind it.
type testParams struct {
	m  uint64
	p  uint64
	pr *big.Int
}

func (t testParams) M() uint64    { return t.m }
func (t testParams) P() uint64    { return t.p }
func (t testParams) Pr() *big.Int { return t.pr }

func newTestParams(m, p uint64, r int) testParams {
	pr := new(big.Int).Exp(new(big.Int).SetUint64(p), big.NewInt(int64(r)), nil)
	return testParams{m: m, p: p, pr: pr}
}

// testOracle is a fixed-answer BootstrappingOracle fake.
type testOracle struct {
	alpha, e, ePrime int
}

func (o testOracle) SetAlphaE(ctx *Context) (int, int, int, error) {
	return o.alpha, o.e, o.ePrime, nil
}

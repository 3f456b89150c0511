package ring

import "fmt"

// Table is the NTT transform context associated with a single prime of
// a modulus chain. Chain-building and set-selection treat it as opaque;
// the transform itself (root tables, butterflies) lives in the full
// ring-algebra package this one is deliberately kept separate from.
// Table exists so that Context can hand every registered prime a
// well-formed collaborator the way ring.Ring.genNTTParams validates one
// internally.
type Table struct {
	M uint64
	Q uint64
}

// NewTable validates that q is an NTT-friendly prime for the m-th
// cyclotomic ring (q prime, q == 1 mod m) and returns its transform
// context. Mirrors the checks ring.Ring.genNTTParams performs per
// modulus, without building the root-of-unity tables themselves.
func NewTable(m, q uint64) (*Table, error) {
	if !IsPrime(q) {
		return nil, fmt.Errorf("ring: modulus %d is not prime", q)
	}
	if m == 0 || (q-1)%m != 0 {
		return nil, fmt.Errorf("ring: modulus %d is not 1 mod m=%d", q, m)
	}
	return &Table{M: m, Q: q}, nil
}

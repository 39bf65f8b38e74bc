package prng

import "math/bits"

const (
	wyhashAdd  uint64 = 0x60bee2bee120fc15
	wyhashMul1 uint64 = 0xa3b195354a39b70d
	wyMul2     uint64 = 0x1b03738712fad5c9
)

// Wyhash64 ported from original_source/src/libs/prng/src/wyhash.rs. As with
// Lehmer64, the two wrapping_mul(u128) steps are performed manually via
// math/bits.Mul64 since Go lacks a native 128-bit type.
type Wyhash64 struct {
	state uint64
}

func NewWyhash64(seed uint64) *Wyhash64 {
	g := &Wyhash64{}
	g.Reseed(seed)
	return g
}

func (g *Wyhash64) Next() uint64 {
	g.state += wyhashAdd

	hi1, lo1 := bits.Mul64(g.state, wyhashMul1)
	m1Hi := hi1
	m1Lo := hi1 ^ lo1

	hi2, lo2 := bits.Mul64(m1Lo, wyMul2)
	hi2Term := m1Hi * wyMul2
	newHi := hi2Term + hi2
	newLo := lo2

	return newHi ^ newLo
}

func (g *Wyhash64) Reseed(seed uint64) {
	seeds := expandSeed(seed, 1)
	g.state = seeds[0]
}


// Clone returns a deep-enough copy (all fields are fixed-width value types)
// with independent state, used when spawning parallel ni mutation workers.
func (g *Wyhash64) Clone() Generator {
	c := *g
	return &c
}

package prng

import "math/bits"

// RomuDuoJr ported verbatim from original_source/src/libs/prng/src/romuduojr.rs.
type RomuDuoJr struct {
	stateX uint64
	stateY uint64
}

func NewRomuDuoJr(seed uint64) *RomuDuoJr {
	g := &RomuDuoJr{}
	g.Reseed(seed)
	return g
}

func (g *RomuDuoJr) Next() uint64 {
	xp := g.stateX
	g.stateX = 15241094284759029579 * g.stateY
	g.stateY = bits.RotateLeft64(g.stateY-xp, 27)
	return xp
}

func (g *RomuDuoJr) Reseed(seed uint64) {
	seeds := expandSeed(seed, 2)
	g.stateX = seeds[0]
	g.stateY = seeds[1]
}


// Clone returns a deep-enough copy (all fields are fixed-width value types)
// with independent state, used when spawning parallel ni mutation workers.
func (g *RomuDuoJr) Clone() Generator {
	c := *g
	return &c
}

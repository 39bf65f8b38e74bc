package prng

import "math/bits"

// RomuTrio ported verbatim from original_source/src/libs/prng/src/romutrio.rs.
type RomuTrio struct {
	stateX uint64
	stateY uint64
	stateZ uint64
}

func NewRomuTrio(seed uint64) *RomuTrio {
	g := &RomuTrio{}
	g.Reseed(seed)
	return g
}

func (g *RomuTrio) Next() uint64 {
	xp := g.stateX
	yp := g.stateY
	zp := g.stateZ
	g.stateX = 15241094284759029579 * zp
	g.stateY = bits.RotateLeft64(yp-xp, 12)
	g.stateZ = bits.RotateLeft64(zp-yp, 44)
	return xp
}

func (g *RomuTrio) Reseed(seed uint64) {
	seeds := expandSeed(seed, 3)
	g.stateX = seeds[0]
	g.stateY = seeds[1]
	g.stateZ = seeds[2]
}


// Clone returns a deep-enough copy (all fields are fixed-width value types)
// with independent state, used when spawning parallel ni mutation workers.
func (g *RomuTrio) Clone() Generator {
	c := *g
	return &c
}

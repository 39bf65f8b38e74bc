// Package magic reproduces the fixed "interesting value" tables used by the
// mutation engine's magic-number mutators, ported bit-for-bit from
// original_source/src/libs/magic/src/lib.rs.
package magic

// Magic8 holds values historically observed to trip boundary conditions in
// 8-bit integer handling (sign-flip boundaries, powers of two, all-bits-set).
var Magic8 = [27]uint8{
	0x7f, 0xff, 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9, 0xa, 0xb, 0xc, 0xd, 0xe, 0xf,
	0x10, 0x20, 0x30, 0x40, 0x7e, 0x80, 0x81, 0xc0, 0xfe,
}

// Magic16 is the 16-bit analogue of Magic8.
var Magic16 = [63]uint16{
	0x7fff, 0xffff, 0x0, 0x0101, 0x8080, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9, 0xa, 0xb,
	0xc, 0xd, 0xe, 0xf, 0x10, 0x20, 0x40, 0x7e, 0x7f, 0x80, 0x81, 0xc0, 0xfe, 0xff, 0x7eff, 0x8000,
	0x8001, 0xfffe, 0x100, 0x200, 0x300, 0x400, 0x500, 0x600, 0x700, 0x800, 0x900, 0xa00, 0xb00,
	0xc00, 0xd00, 0xe00, 0xf00, 0x1000, 0x2000, 0x4000, 0x7e00, 0x7f00, 0x8000, 0x8100, 0xc000,
	0xfe00, 0xff00, 0xff7e, 0xff7f, 0x0180, 0xfeff,
}

// Magic32 is the 32-bit analogue of Magic8.
var Magic32 = [63]uint32{
	0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9, 0xa, 0xb, 0xc, 0xd, 0xe, 0xf,
	0x10, 0x20, 0x40, 0x7e, 0x7f, 0x80, 0x81, 0xc0, 0xfe, 0xff, 0x7ffff,
	0x01000000, 0x02000000, 0x03000000, 0x04000000, 0x05000000, 0x06000000, 0x07000000,
	0x08000000, 0x09000000, 0x0a000000, 0x0b000000, 0x0c000000, 0x0d000000, 0x0e000000, 0x0f000000,
	0x80000000, 0x40000000, 0xffffffff, 0x01010101, 0x80808080, 0x7effffff, 0x80000021, 0xfffffffe,
	0x10000000, 0x20000000, 0x40000000, 0x7e000000, 0x7f000000, 0x81000000, 0xc0000000,
	0xfe000000, 0xff000000, 0xffffff7e, 0xffffff7f, 0x01000080, 0xfeffffff,
}

// Magic64 is the 64-bit analogue of Magic8.
var Magic64 = [61]uint64{
	0xffffffffffffffff, 0x4000000000000000, 0x8000000000000000, 0x7fffffffffffffff,
	0x0, 0x0101010101010101, 0x8080808080808080,
	0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9, 0xa, 0xb, 0xc, 0xd, 0xe, 0xf,
	0x10, 0x20, 0x40, 0x7e, 0x7f, 0x80, 0x81, 0xc0, 0xfe, 0xff, 0x7f,
	0x7effffffffffffff, 0x8000000000000001, 0xfffffffffffffffe,
	0x0100000000000000, 0x0200000000000000, 0x0300000000000000, 0x0400000000000000,
	0x0500000000000000, 0x0600000000000000, 0x0700000000000000, 0x0900000000000000,
	0x0a00000000000000, 0x0b00000000000000, 0x0c00000000000000, 0x0d00000000000000,
	0x0e00000000000000, 0x0f00000000000000, 0x1000000000000000, 0x2000000000000000,
	0x4000000000000000, 0x7e00000000000000, 0x7f00000000000000, 0x8100000000000000,
	0xc000000000000000, 0xfe00000000000000, 0xff00000000000000, 0x0100000000000080,
	0xfeffffffffffffff,
}

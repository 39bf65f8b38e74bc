package magic

import "testing"

func TestTableLengths(t *testing.T) {
	if len(Magic8) != 27 {
		t.Fatalf("Magic8 length = %d, want 27", len(Magic8))
	}
	if len(Magic16) != 63 {
		t.Fatalf("Magic16 length = %d, want 63", len(Magic16))
	}
	if len(Magic32) != 63 {
		t.Fatalf("Magic32 length = %d, want 63", len(Magic32))
	}
	if len(Magic64) != 61 {
		t.Fatalf("Magic64 length = %d, want 61", len(Magic64))
	}
}

// TestMagic64SkipsEightByteShiftedConstant documents a genuine quirk in the
// original table: it lists the single-digit 0x8 magic value but has no
// 0x0800000000000000-shifted large constant (it jumps from the 0x07-shifted
// entry straight to the 0x09-shifted one). Preserved faithfully rather than
// "fixed".
func TestMagic64SkipsEightByteShiftedConstant(t *testing.T) {
	const shiftedEight = 0x0800000000000000
	for _, v := range Magic64 {
		if v == shiftedEight {
			t.Fatalf("Magic64 unexpectedly contains the byte-shifted 0x08 constant the original omits")
		}
	}
}

func TestMagic8ContainsBoundaryValues(t *testing.T) {
	want := []uint8{0x7f, 0xff, 0x0, 0x80}
	for _, w := range want {
		found := false
		for _, v := range Magic8 {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Magic8 missing expected boundary value 0x%x", w)
		}
	}
}

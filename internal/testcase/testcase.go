// Package testcase implements the typed byte-buffer consumer API every
// mutator and grammar generator reads its random decisions from. Ported from
// original_source/src/libs/test_case/src/lib.rs.
package testcase

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf16"
	"unsafe"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

// Encoding selects how ConsumeStr/ConsumeRemainingAsStr interpret consumed
// bytes.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF8ASCII
	UTF16
)

// TestCase is a cursor-addressed byte buffer: every Consume* method advances
// the cursor and returns an error if the request would run past the end of
// the buffer, mirroring the original's data/size/data_ptr/energy/accessed
// fields.
type TestCase struct {
	Data     []byte
	Size     int
	DataPtr  int
	Energy   int
	Accessed []int
}

// New clones data into a fresh TestCase with the cursor at the start.
func New(data []byte) *TestCase {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &TestCase{Data: buf, Size: len(buf)}
}

// Default mirrors the original's Default impl: an empty 4096-byte-capacity
// buffer (Go slices don't preallocate by "size" the way the Rust Vec does,
// so Size here is 4096 but Data starts empty, matching the original's
// size-without-matching-data-length oddity).
func Default() *TestCase {
	return &TestCase{Data: make([]byte, 0, 4096), Size: 4096}
}

func (t *TestCase) GetDataPointer() int { return t.DataPtr }
func (t *TestCase) GetEnergy() int      { return t.Energy }
func (t *TestCase) GetSize() int        { return t.Size }

// SetEnergy returns t for chaining, matching the original's consuming
// builder method.
func (t *TestCase) SetEnergy(energy int) *TestCase {
	t.Energy = energy
	return t
}

// SetAccessed appends indices, matching the original's extend_from_slice.
func (t *TestCase) SetAccessed(indices []int) *TestCase {
	t.Accessed = append(t.Accessed, indices...)
	return t
}

func (t *TestCase) ClearAccessed() {
	t.Accessed = t.Accessed[:0]
}

func (t *TestCase) isSizeSane(requested int) error {
	if requested+t.DataPtr > t.Size {
		return ferrors.New("Not enough data left to fullfil request")
	}
	return nil
}

func (t *TestCase) getMax(length int) (int, error) {
	if err := t.isSizeSane(length); err != nil {
		return 0, err
	}
	remaining := t.Size - t.DataPtr
	if length < remaining {
		return length, nil
	}
	return remaining, nil
}

func (t *TestCase) ConsumeBool() (bool, error) {
	if _, err := t.getMax(1); err != nil {
		return false, err
	}
	b, err := t.ConsumeByte()
	if err != nil {
		return false, ferrors.New("Failed to consume bool from stream")
	}
	return b&1 == 1, nil
}

func (t *TestCase) ConsumeBooleans(num int) ([]bool, error) {
	max, err := t.getMax(num)
	if err != nil {
		return nil, err
	}
	out := make([]bool, max)
	for i := range out {
		if b, err := t.ConsumeBool(); err == nil {
			out[i] = b
		}
	}
	return out, nil
}

func (t *TestCase) ConsumeByte() (byte, error) {
	if _, err := t.getMax(1); err != nil {
		return 0, err
	}
	ret := t.Data[t.DataPtr]
	t.DataPtr++
	return ret, nil
}

func (t *TestCase) ConsumeBytes(num int) ([]byte, error) {
	max, err := t.getMax(num)
	if err != nil {
		return nil, err
	}
	out := make([]byte, max)
	for i := range out {
		if b, err := t.ConsumeByte(); err == nil {
			out[i] = b
		}
	}
	return out, nil
}

func (t *TestCase) ConsumeRemainingAsBytes() ([]byte, error) {
	return t.ConsumeBytes(t.Size - t.DataPtr)
}

func (t *TestCase) ConsumeStr(length int, encoding Encoding) (string, error) {
	var end int
	var err error
	switch encoding {
	case UTF8, UTF8ASCII:
		end, err = t.getMax(length)
	case UTF16:
		end, err = t.getMax(length * 2)
	}
	if err != nil {
		return "", err
	}
	slice := t.Data[t.DataPtr : t.DataPtr+end]

	var s string
	switch encoding {
	case UTF8:
		s = strings.ToValidUTF8(string(slice), "�")
	case UTF8ASCII:
		mapped := make([]byte, len(slice))
		for i, b := range slice {
			mapped[i] = (b-32)%95 + 32
		}
		s = string(mapped)
	case UTF16:
		// The original reinterprets the raw byte slice as a native-endian
		// u16 slice via an unsafe pointer cast; the target is x86_64, so
		// that is little-endian.
		units := make([]uint16, end/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(slice[i*2 : i*2+2])
		}
		s = string(utf16.Decode(units))
	}
	t.DataPtr += end
	return s, nil
}

func (t *TestCase) ConsumeRemainingAsStr(encoding Encoding) (string, error) {
	return t.ConsumeStr(t.Size-t.DataPtr, encoding)
}

// ConsumeFloat reads 8 raw bytes as little-endian IEEE-754 bits. When fewer
// than 8 bytes remain it copies what's left into a zero-padded 8-byte
// buffer and then reverses the WHOLE buffer (padding included) before
// decoding — a faithful reproduction of the original's byte-reversal
// quirk, not a bug fix.
func (t *TestCase) ConsumeFloat() (float64, error) {
	if t.DataPtr == t.Size {
		return 0.0, nil
	}
	if t.DataPtr+8 > t.Size {
		var cdata [8]byte
		copy(cdata[:], t.Data[t.DataPtr:t.Size])
		for i, j := 0, 7; i < j; i, j = i+1, j-1 {
			cdata[i], cdata[j] = cdata[j], cdata[i]
		}
		t.DataPtr = t.Size
		return math.Float64frombits(binary.LittleEndian.Uint64(cdata[:])), nil
	}
	bits := binary.LittleEndian.Uint64(t.Data[t.DataPtr : t.DataPtr+8])
	t.DataPtr += 8
	return bits2float(bits), nil
}

func bits2float(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// Signed, Unsigned and Integer constrain the generic integer consumers to
// the fixed-width kinds Go can read/write with encoding/binary. 128-bit
// integers are handled separately by ConsumeUint128/ConsumeInt128 below —
// Go has no native 128-bit integer and generics can't span a type that
// doesn't exist, so they get dedicated (Hi, Lo uint64) types instead of
// participating in this constraint.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type Integer interface {
	Signed | Unsigned
}

func byteWidth[T Integer]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func isSigned[T Integer]() bool {
	return T(0)-T(1) < T(0)
}

// wrappingSub performs T-width wrapping subtraction by reinterpreting both
// operands through the same-size unsigned type, matching Rust's
// wrapping_sub semantics at T's native bit width regardless of signedness.
func wrappingSub[T Integer](a, b T) T {
	switch byteWidth[T]() {
	case 1:
		return T(uint8(a) - uint8(b))
	case 2:
		return T(uint16(a) - uint16(b))
	case 4:
		return T(uint32(a) - uint32(b))
	default:
		return T(uint64(a) - uint64(b))
	}
}

func minMaxOf[T Integer]() (T, T) {
	signed := isSigned[T]()
	s := func(v int64) T { return T(v) }
	u := func(v uint64) T { return T(v) }
	switch byteWidth[T]() {
	case 1:
		if signed {
			return s(math.MinInt8), s(math.MaxInt8)
		}
		return T(0), u(math.MaxUint8)
	case 2:
		if signed {
			return s(math.MinInt16), s(math.MaxInt16)
		}
		return T(0), u(math.MaxUint16)
	case 4:
		if signed {
			return s(math.MinInt32), s(math.MaxInt32)
		}
		return T(0), u(math.MaxUint32)
	default:
		if signed {
			return s(math.MinInt64), s(math.MaxInt64)
		}
		return T(0), u(math.MaxUint64)
	}
}

func readRawUint64[T Integer](t *TestCase, littleEndian bool) (uint64, error) {
	n := byteWidth[T]()
	b, err := t.ConsumeBytes(n)
	if err != nil {
		return 0, err
	}
	if len(b) < n {
		// Not enough data was available; zero-extend like the original's
		// vec![0u8; max] initialization followed by partial fill.
		padded := make([]byte, n)
		copy(padded, b)
		b = padded
	}
	switch n {
	case 1:
		return uint64(b[0]), nil
	case 2:
		if littleEndian {
			return uint64(binary.LittleEndian.Uint16(b)), nil
		}
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		if littleEndian {
			return uint64(binary.LittleEndian.Uint32(b)), nil
		}
		return uint64(binary.BigEndian.Uint32(b)), nil
	default:
		if littleEndian {
			return binary.LittleEndian.Uint64(b), nil
		}
		return binary.BigEndian.Uint64(b), nil
	}
}

// consumeRawUnsigned reads byteWidth[T] bytes and bit-reinterprets them as
// T with no signedness adjustment (the original's _consume_int_u).
func consumeRawUnsigned[T Integer](t *TestCase, littleEndian bool) (T, error) {
	u, err := readRawUint64[T](t, littleEndian)
	if err != nil {
		return 0, err
	}
	return T(u), nil
}

// ConsumeInt consumes a single integer of width/signedness T. Signed
// widths never produce a value outside [0, 2^(bits-1)-2] — the original's
// _consume_int_s reduces the raw unsigned read modulo 2^(bits-1)-1 before
// casting to the signed type, so consume_int::<iN> can never itself
// produce a negative number. This is preserved exactly, not "fixed".
func ConsumeInt[T Integer](t *TestCase, littleEndian bool) (T, error) {
	if !isSigned[T]() {
		return consumeRawUnsigned[T](t, littleEndian)
	}
	raw, err := readRawUint64[T](t, littleEndian)
	if err != nil {
		return 0, err
	}
	maxVal := uint64(1)<<(uint(byteWidth[T]()*8-1)) - 1
	return T(raw % maxVal), nil
}

// ConsumeInts consumes up to num integers via ConsumeInt.
func ConsumeInts[T Integer](t *TestCase, littleEndian bool, num int) ([]T, error) {
	max, err := t.getMax(byteWidth[T]() * num)
	if err != nil {
		return nil, err
	}
	if max/byteWidth[T]() < num {
		num = max / byteWidth[T]()
	}
	out := make([]T, num)
	for i := range out {
		if v, err := ConsumeInt[T](t, littleEndian); err == nil {
			out[i] = v
		}
	}
	return out, nil
}

func remEuclid[T Integer](a, m T) T {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// ConsumeIntRange consumes a single T in [min, max]. min == max short-
// circuits to min; max < min panics exactly like the original's assert.
func ConsumeIntRange[T Integer](t *TestCase, littleEndian bool, min, max T) (T, error) {
	if max == min {
		return min, nil
	}
	if max < min {
		panic("testcase: ConsumeIntRange requires max >= min")
	}
	rangeVal := wrappingSub(max, min)
	tMin, tMax := minMaxOf[T]()
	fullSpanWrapped := wrappingSub(tMax, tMin)

	if isSigned[T]() {
		raw, err := ConsumeInt[T](t, littleEndian)
		if err != nil {
			return 0, err
		}
		if rangeVal == tMax || rangeVal == fullSpanWrapped {
			return min + raw, nil
		}
		mod := rangeVal + 1
		return min + remEuclid(raw, mod), nil
	}
	raw, err := consumeRawUnsigned[T](t, littleEndian)
	if err != nil {
		return 0, err
	}
	if rangeVal == tMax {
		return min + raw, nil
	}
	mod := rangeVal + 1
	return min + raw%mod, nil
}

// ConsumeIntsRange consumes up to num integers via ConsumeIntRange.
func ConsumeIntsRange[T Integer](t *TestCase, littleEndian bool, num int, min, max T) ([]T, error) {
	maxEle, err := t.getMax(byteWidth[T]() * num)
	if err != nil {
		return nil, err
	}
	if maxEle/byteWidth[T]() < num {
		num = maxEle / byteWidth[T]()
	}
	out := make([]T, num)
	for i := range out {
		if v, err := ConsumeIntRange[T](t, littleEndian, min, max); err == nil {
			out[i] = v
		}
	}
	return out, nil
}

// Uint128 and Int128 stand in for Rust's u128/i128: Go has no native
// 128-bit integer type, and generics can't be instantiated over a type
// that doesn't exist, so 128-bit consumption gets its own concrete pair
// type rather than joining the Integer constraint. This is a documented
// standard-library-only choice (see DESIGN.md): no example-pack dependency
// offers a lightweight fixed-width 128-bit integer suited to a hot
// consumer path.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

type Int128 struct {
	Hi uint64
	Lo uint64
}

func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// ConsumeUint128 reads 16 raw bytes and bit-reinterprets them as a u128,
// matching from_le_bytes/from_be_bytes semantics.
func ConsumeUint128(t *TestCase, littleEndian bool) (Uint128, error) {
	b, err := t.ConsumeBytes(16)
	if err != nil {
		return Uint128{}, err
	}
	padded := make([]byte, 16)
	copy(padded, b)
	if littleEndian {
		return Uint128{Lo: binary.LittleEndian.Uint64(padded[0:8]), Hi: binary.LittleEndian.Uint64(padded[8:16])}, nil
	}
	return Uint128{Hi: binary.BigEndian.Uint64(padded[0:8]), Lo: binary.BigEndian.Uint64(padded[8:16])}, nil
}

// ConsumeInt128 mirrors _consume_int_s for the 128-bit case: the raw u128
// is reduced modulo 2^127-1 before being reinterpreted as signed, so it too
// never produces a negative value directly.
func ConsumeInt128(t *TestCase, littleEndian bool) (Int128, error) {
	raw, err := ConsumeUint128(t, littleEndian)
	if err != nil {
		return Int128{}, err
	}
	hi, lo := mod127(raw.Hi, raw.Lo)
	return Int128{Hi: hi, Lo: lo}, nil
}

// mod127 reduces the 128-bit value (hi,lo) modulo 2^127-1. A set top bit is
// removed by subtracting (2^127-1) once; a value that then equals the
// modulus or 2^127 (only the inputs 2^127-1, 2^128-2 and 2^128-1) is folded
// to 0 or 1.
func mod127(hi, lo uint64) (uint64, uint64) {
	const topBit = uint64(1) << 63
	if hi&topBit == 0 {
		if hi == topBit-1 && lo == math.MaxUint64 {
			return 0, 0
		}
		return hi, lo
	}
	// subtract (2^127 - 1): hi -= 2^63 (clear top bit), then add 1 to the
	// 128-bit value (since subtracting (2^127-1) = subtracting 2^127 and
	// adding 1).
	hi &^= topBit
	lo++
	if lo == 0 {
		hi++
	}
	if hi == topBit {
		return 0, 1
	}
	if hi == topBit-1 && lo == math.MaxUint64 {
		return 0, 0
	}
	return hi, lo
}

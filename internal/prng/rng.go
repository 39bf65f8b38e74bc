package prng

import "math"

// SpecialChar mirrors the original's SPECIAL_CHAR table used by RandChar to
// bias generated bytes towards format-breaking punctuation and control
// characters instead of a uniform byte distribution.
var SpecialChar = [30]byte{
	'!', '*', '\'', '(', ')', ';', ':', '@', '&', '=',
	'+', '$', ',', '/', '?', '%', '#', '[', ']', '0',
	'1', ' ', '2', 'A', 'z', '-', '`', '~', 0x7f, 0x00,
}

// Integer constrains the generic Consume/RandRange helpers to the signed and
// unsigned integer kinds the mutation engine and test-case consumers need.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Rng wraps a concrete Generator with the higher-level helpers used
// throughout the mutation engine, ported from original_source's
// prng/src/lib.rs Rng<G> impl.
type Rng struct {
	gen         Generator
	exponential bool
}

// NewRng constructs an Rng around an already-seeded Generator.
func NewRng(gen Generator) *Rng {
	return &Rng{gen: gen}
}

// SetRandExp toggles whether RandExp ever degrades a requested range into a
// nested sub-range, matching the original's CLI-controlled `exponential`
// field (defaults to false: RandExp behaves like RandRange until enabled).
func (r *Rng) SetRandExp(enabled bool) {
	r.exponential = enabled
}

// Rand returns the next raw value from the underlying generator.
func (r *Rng) Rand() uint64 {
	return r.gen.Next()
}

// Reseed reseeds the underlying generator.
func (r *Rng) Reseed(seed uint64) {
	r.gen.Reseed(seed)
}

// Clone returns an independent Rng with its own copy of the underlying
// generator state, matching the original's derive(Clone) on Rng<G> — used
// by the parallel ni mutator to give each worker goroutine its own stream
// descended from the same point.
func (r *Rng) Clone() *Rng {
	return &Rng{gen: r.gen.Clone(), exponential: r.exponential}
}

// RandRange returns a value in [min, max). Panics if max < min, matching the
// original's debug_assert!/panic!. min == max short-circuits to min.
func RandRange[T Integer](r *Rng, min, max T) T {
	if max < min {
		panic("prng: RandRange requires max >= min")
	}
	if min == max {
		return min
	}
	span := uint64(max - min)
	return min + T(r.Rand()%span)
}

// RandTwo returns two distinct values in [0, max) sorted ascending. A
// degenerate max <= 1 returns (0, 1) exactly as the original does (it cannot
// produce two distinct values below 2, so it special-cases rather than
// looping forever).
func RandTwo[T Integer](r *Rng, max T) (T, T) {
	if max <= 1 {
		return 0, 1
	}
	a := RandRange(r, T(0), max)
	b := RandRange(r, T(0), max)
	for a == b {
		a = RandRange(r, T(0), max)
		b = RandRange(r, T(0), max)
	}
	if a < b {
		return a, b
	}
	return b, a
}

// RandExp returns a value in [min, max). When exponential mode is disabled it
// behaves exactly like RandRange. When enabled, half the time it still
// behaves like RandRange, and half the time it nests: the upper bound of the
// returned range is itself drawn from [min, max), biasing results towards
// min — matching the original's rand_exp.
func RandExp[T Integer](r *Rng, min, max T) T {
	if !r.exponential {
		return RandRange(r, min, max)
	}
	if r.Bool() {
		return RandRange(r, min, max)
	}
	upper := RandRange(r, min, max)
	return RandRange(r, min, upper)
}

// RandGaussian draws from a pseudo-normal distribution centered on mean with
// the given stddev, clamped to [min, max]. Ported from the original's
// rand_gaussian: a uniform [0,1) draw is folded into [-1, 1) via
// normal*2-1, then scaled and recentered.
func RandGaussian[T Integer](r *Rng, min, max, mean T, stddev *T) T {
	sd := stddev
	var defaultSD T
	if sd == nil {
		defaultSD = (max - min) / 2
		sd = &defaultSD
	}
	normal := r.RandFloat()
	normal = normal*2 - 1
	value := normal*float64(*sd) + float64(mean)
	return clampFloat[T](value, min, max)
}

// RandGaussianN draws n gaussian values via RandGaussian.
func RandGaussianN[T Integer](r *Rng, min, max, mean T, stddev *T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = RandGaussian(r, min, max, mean, stddev)
	}
	return out
}

func clampFloat[T Integer](v float64, min, max T) T {
	if v < float64(min) {
		return min
	}
	if v > float64(max) {
		return max
	}
	return T(v)
}

// RandByte returns a random byte. Note this faithfully preserves the
// original's off-by-one quirk: the modulus is 255, not 256, so the value
// 255 can never be produced by RandByte (RandChar and raw byte-vector
// generation are unaffected and can still produce 0xff).
func (r *Rng) RandByte() byte {
	return byte(r.Rand() % 255)
}

// RandByteVec returns n random bytes via RandByte.
func (r *Rng) RandByteVec(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = r.RandByte()
	}
	return out
}

// RandRangeVec returns n distinct values in [min, max) via accept/reject
// sampling, matching the original's rand_range_vec.
func RandRangeVec[T Integer](r *Rng, min, max T, n int) []T {
	seen := make(map[T]struct{}, n)
	out := make([]T, 0, n)
	for len(out) < n {
		v := RandRange(r, min, max)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// RandFloat returns a value in [0, 1), matching rand()/(uint64_max+1.0).
func (r *Rng) RandFloat() float64 {
	const maxPlusOne = math.MaxUint64 + 1.0
	return float64(r.Rand()) / maxPlusOne
}

// Bool returns a fair coin flip.
func (r *Rng) Bool() bool {
	return r.Rand()%2 == 0
}

// BoolChance returns true with probability 1/prob. Panics on prob == 0,
// matching the original's debug assertion.
func (r *Rng) BoolChance(prob uint64) bool {
	if prob == 0 {
		panic("prng: BoolChance requires prob > 0")
	}
	return RandRange(r, uint64(0), prob) == 0
}

// Pick returns a uniformly random element of entries. Panics on an empty
// slice, matching the original's indexing panic.
func Pick[T any](r *Rng, entries []T) T {
	idx := RandRange(r, 0, len(entries))
	return entries[idx]
}

// PickRef returns a pointer to a uniformly random element of entries.
func PickRef[T any](r *Rng, entries []T) *T {
	idx := RandRange(r, 0, len(entries))
	return &entries[idx]
}

// RandChar returns a random byte using the same half-raw-byte/half-special
// distribution as the original's rand_char: a coin flip decides between an
// arbitrary RandByte and one of the 30 entries in SpecialChar.
func (r *Rng) RandChar() byte {
	if r.Bool() {
		return r.RandByte()
	}
	idx := RandRange(r, 0, len(SpecialChar))
	return SpecialChar[idx]
}

// Shuffle performs an in-place Fisher-Yates shuffle, with the original's
// explicit len==2 special case (an unconditional single swap) preserved
// rather than falling through to the general loop, which would produce the
// same distribution but not the same call sequence against the generator.
func Shuffle[T any](r *Rng, entries []T) {
	n := len(entries)
	if n < 2 {
		return
	}
	if n == 2 {
		entries[0], entries[1] = entries[1], entries[0]
		return
	}
	for i := n - 1; i >= 1; i-- {
		j := RandRange(r, 0, i+1)
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// ChooseMultiple returns n distinct random indices into a slice of len
// length, via the same accept/reject sampling as RandRangeVec.
func ChooseMultiple(r *Rng, length, n int) []int {
	return RandRangeVec(r, 0, length, n)
}

// Package ni implements the recursive block mutator adapted from
// <https://github.com/aoh/ni> (by way of
// original_source/src/libs/mutation_engine/src/custom_mutators/ni/src/lib.rs),
// one of the mutation engine's lowest-level byte-shuffling strategies.
package ni

import (
	"bytes"
	"io"
	"runtime"
	"sync"

	"github.com/0xricksanchez/hantu-go/internal/prng"
)

const (
	aimax     = 512
	aimrounds = 256
	aimlen    = 1024
)

// sufscore scores how quickly a and b diverge: a run of identical leading
// bytes earns nothing, but every time the byte at a given position changes
// from the previous one (without yet matching b), the score climbs by 32,
// up to aimax. Matches the original's take_while-based sufscore exactly,
// including the "last != current" run-change bookkeeping.
func sufscore(a, b []byte) int {
	n := 0
	last := byte(0xff)
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	for i := 0; i < length; i++ {
		if n >= aimax || a[i] == b[i] {
			break
		}
		if a[i] != last {
			n += 32
		}
		last = a[i]
	}
	return n
}

// aim searches from and to for a high-scoring (jump, land) index pair: data
// before jump in from is kept, data from land onward in to is appended,
// giving a plausible "this looks like a reasonable splice point" mutation
// site instead of a uniformly random one.
func aim(from, to []byte, r *prng.Rng) (jump, land int) {
	flen := len(from)
	tlen := len(to)
	if flen == 0 {
		jump = 0
		if tlen > 0 {
			land = prng.RandRange(r, 0, tlen)
		}
		return
	}
	if tlen == 0 {
		return 0, 0
	}

	jump = prng.RandRange(r, 0, flen)
	land = prng.RandRange(r, 0, tlen)

	bestScore := 0
	rounds := prng.RandRange(r, 0, aimrounds)
	for i := 0; i < rounds; i++ {
		maxs := aimlen
		j := prng.RandRange(r, 0, flen)
		l := prng.RandRange(r, 0, tlen)
		for maxs > 0 && l < tlen && from[j] != to[l] {
			l++
			maxs--
		}
		score := sufscore(from[j:], to[l:])
		if score > bestScore {
			bestScore = score
			jump = j
			land = l
		}
	}
	return
}

// randomBlock draws a random sample from corpus (or, lacking one, 4096
// fresh random bytes) and returns a random-length slice of it starting at a
// random offset, capped at four times len(data), for use as donor material
// in a splice mutation.
func randomBlock(data []byte, r *prng.Rng, corpus [][]byte) []byte {
	var other []byte
	if len(corpus) > 0 {
		idx := prng.RandRange(r, 0, len(corpus))
		other = corpus[idx]
	} else {
		other = r.RandByteVec(4096)
	}
	olen := len(other)
	if olen < 3 {
		return append([]byte(nil), data...)
	}
	start := prng.RandRange(r, 0, olen-2)

	length := olen - start
	dlen := len(data)
	if length > 4*dlen {
		length = 4 * dlen
	}
	length = prng.RandRange(r, 0, length)
	return other[start : start+length]
}

// seekNum finds the first run of ASCII digits starting at or after a
// randomly chosen offset, bailing out (returning ok=false) the moment a
// non-ASCII byte is encountered before any digit is found.
func seekNum(data []byte, r *prng.Rng) (start, end int, ok bool) {
	n := len(data)
	if n == 0 {
		return 0, 0, false
	}
	o := prng.RandRange(r, 0, n)
	for o < n && !isASCIIDigit(data[o]) {
		if data[o]&128 != 0 {
			return 0, 0, false
		}
		o++
	}
	if o == n {
		return 0, 0, false
	}
	ns := o
	o++
	for o < n && isASCIIDigit(data[o]) {
		o++
	}
	return ns, o, true
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

// twiddle repeatedly perturbs val — a full random replacement, a single bit
// flip, or a small additive nudge — continuing with 50% probability each
// round, matching the original's loop { ...; if prng.bool() { break } }.
func twiddle(val int64, r *prng.Rng) int64 {
	for {
		switch prng.RandRange(r, 0, 3) {
		case 0:
			val = int64(r.Rand())
		case 1:
			val ^= 1 << prng.RandRange(r, 0, 63)
		case 2:
			val += int64(prng.RandRange(r, 0, 5)) - 2
		}
		if r.Bool() {
			break
		}
	}
	return val
}

// delimOf returns the counterpart of a bracket-like delimiter byte, or
// ok=false for anything not in the original's fixed delimiter set.
func delimOf(delim byte) (byte, bool) {
	switch delim {
	case '<':
		return '>', true
	case '(':
		return ')', true
	case '{':
		return '}', true
	case '[':
		return ']', true
	case '>':
		return '<', true
	case ')':
		return '(', true
	case '}':
		return '{', true
	case ']':
		return '[', true
	case '\n':
		return '\n', true
	default:
		return 0, false
	}
}

// drangeStart locates the first occurrence of one of the four opening
// delimiters ('[', '<', '(', '\n') in data.
func drangeStart(data []byte) (idx int, delim byte, ok bool) {
	for i, c := range data {
		if c == '[' || c == '<' || c == '(' || c == '\n' {
			return i, c, true
		}
	}
	return 0, 0, false
}

// drangeEnd finds the index just past the matching closing delimiter for
// the already-open delimOpen, tracking nesting depth, with a per-close
// one-in-three chance of stopping at the first candidate rather than
// continuing to search for a later, more deeply nested close.
func drangeEnd(data []byte, delimOpen, delimClose byte, r *prng.Rng) (int, bool) {
	depth := 0
	for i, c := range data {
		switch {
		case c == delimClose:
			depth--
			if depth == 0 {
				if r.BoolChance(3) {
					return i + 1, true
				}
				next, ok := drangeEnd(data[i+1:], delimOpen, delimClose, r)
				if ok {
					return i + 1 + next, true
				}
				return i + 1, true
			}
		case c == delimOpen:
			depth++
		case c&128 > 0:
			return 0, false
		}
	}
	return 0, false
}

// drange locates a full delimited range (open through matching close)
// starting from the first delimiter found anywhere in data.
func drange(data []byte, r *prng.Rng) (start, end int, ok bool) {
	delimStart, delim, found := drangeStart(data)
	if !found {
		return 0, 0, false
	}
	delimClose, found := delimOf(delim)
	if !found {
		return 0, 0, false
	}
	delimEnd, found := drangeEnd(data[delimStart:], delim, delimClose, r)
	if !found {
		return 0, 0, false
	}
	return delimStart, delimStart + delimEnd, true
}

// otherDrange searches up to 10 random starting offsets for another
// occurrence of delimStart, paired with its matching close, independent of
// whatever range drange already found.
func otherDrange(data []byte, delimStart byte, r *prng.Rng) (start, end int, ok bool) {
	delimClose, found := delimOf(delimStart)
	if !found {
		return 0, 0, false
	}
	for attempt := 0; attempt < 10; attempt++ {
		start := prng.RandRange(r, 0, len(data))
		tempData := data[start:]
		for i, c := range tempData {
			if c == delimStart {
				end, ok := drangeEnd(tempData[i:], delimStart, delimClose, r)
				if !ok {
					continue
				}
				return start + i, start + i + end, true
			}
		}
	}
	return 0, 0, false
}

// mutateArea applies exactly one of 35 mutation strategies to data, writing
// the result to out. Strategies that find their preconditions unmet (e.g. no
// delimiter in the data) loop back and redraw a strategy, matching the
// original's `loop { match rand_range(0, 35) { ... continue ... } }`.
func mutateArea(data []byte, out io.Writer, r *prng.Rng, corpus [][]byte) {
	end := len(data)
	for {
		switch strategy := prng.RandRange(r, 0, 35); {
		case strategy == 0:
			pos := prng.RandRange(r, 0, end)
			out.Write(data[:pos])
			out.Write(r.RandByteVec(1))
			out.Write(data[pos:])
			return

		case strategy == 1:
			pos := prng.RandRange(r, 0, end)
			if pos+1 >= end {
				continue
			}
			out.Write(data[:pos])
			out.Write(data[pos+1:])
			return

		case strategy <= 3:
			if end <= 1 {
				continue
			}
			a, b := prng.RandTwo(r, end)
			out.Write(data[:a])
			out.Write(data[b:])
			return

		case strategy <= 5:
			if end < 2 {
				continue
			}
			n := 8
			for r.Bool() && n < 20000 {
				n <<= 1
			}
			n = prng.RandRange(r, 1, n+3)
			a, b := prng.RandTwo(r, end)
			length := b - a
			out.Write(data[:a])
			if length*n > 0x8000000 {
				length = prng.RandRange(r, 0, 1026)
			}
			for i := 0; i < n; i++ {
				out.Write(data[a : a+length])
			}
			out.Write(data[a:])
			return

		case strategy == 6:
			pos := prng.RandRange(r, 0, end)
			n := prng.RandRange(r, 0, 1024)
			randomData := r.RandByteVec(n)
			out.Write(data[:pos])
			out.Write(randomData)
			out.Write(data[pos:])
			return

		case strategy <= 12:
			if end < 5 {
				continue
			}
			j, l := aim(data, data, r)
			out.Write(data[:j])
			out.Write(data[l:])
			return

		case strategy <= 21:
			if end < 8 {
				continue
			}
			rchk := randomBlock(data, r, corpus)
			j, l := aim(data[:end>>1], rchk[:len(rchk)>>1], r)
			out.Write(data[:j])

			buff := rchk[len(rchk)>>1:]
			j2, l2 := aim(buff, data[j:], r)
			out.Write(buff[:j2])
			_ = l
			out.Write(data[l2:])
			return

		case strategy <= 23:
			if end < 2 {
				continue
			}
			n := prng.RandRange(r, 2, 4096) % (4096 / 5)
			pos := prng.RandRange(r, 0, end)
			rd := prng.RandRange(r, 2, len(data))
			out.Write(data[:pos])
			for i := 0; i < n; i++ {
				out.Write(data[rd-1 : rd])
				rd = prng.RandRange(r, 2, len(data))
			}
			out.Write(data[pos:])
			return

		case strategy == 24:
			if end < 2 {
				continue
			}
			a := prng.RandRange(r, 0, end-2)
			b := a + 2
			if r.Bool() {
				b += prng.RandRange(r, 0, 32)
			} else {
				lim := 4096 - 2
				if end-a-2 < lim {
					lim = end - a - 2
				}
				b += prng.RandRange(r, 0, lim)
			}
			if b > end {
				b = end
			}
			out.Write(data[:a])
			for i := a; i < b; i++ {
				rd := prng.RandRange(r, 0, end)
				out.Write(data[rd : rd+1])
			}
			if end > b {
				out.Write(data[b:])
			}
			return

		case strategy <= 28:
			if end < 2 {
				continue
			}
			rounds := prng.RandRange(r, 0, aimrounds)
			written := false
			for i := 0; i < rounds; i++ {
				ns, ne, ok := seekNum(data, r)
				if !ok {
					continue
				}
				out.Write(data[:ns])
				num := parseUintBytes(data[ns:ne])
				twid := twiddle(num, r)
				var raw [8]byte
				putInt64NE(&raw, twid)
				out.Write(raw[:])
				out.Write(data[ne:])
				written = true
				break
			}
			if !written {
				continue
			}
			return

		default:
			s1, e1, ok := drange(data, r)
			if !ok {
				continue
			}
			s2, e2, ok := otherDrange(data, data[s1], r)
			if !ok {
				continue
			}
			out.Write(data[:s1])
			out.Write(data[s2:e2])
			if s2 > e1 {
				out.Write(data[e1:s2])
			}
			out.Write(data[s1:e1])
			out.Write(data[e2:])
			return
		}
	}
}

// parseUintBytes parses an ASCII-digit byte slice as an unsigned base-10
// integer, matching the original's str::parse::<usize>() call on the same
// slice (the slice is guaranteed all-digit by seekNum).
func parseUintBytes(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v*10 + int64(c-'0')
	}
	return v
}

// putInt64NE writes v's native-endian 8-byte representation, matching the
// original's i64::to_ne_bytes() on its x86_64 (little-endian) target.
func putInt64NE(out *[8]byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		out[i] = byte(u >> (8 * i))
	}
}

// NiAreaParallel recursively splits data into GOMAXPROCS chunks,
// mutating each chunk concurrently (one goroutine per chunk) once n > 1 and
// len(data) >= 256, then concatenates sub-results in chunk order for
// determinism. Below that threshold it falls straight to mutateArea.
func NiAreaParallel(data []byte, n int, out io.Writer, r *prng.Rng, corpus [][]byte) {
	if n == 1 || len(data) < 256 {
		mutateArea(data, out, r, corpus)
		return
	}

	numThreads := runtime.GOMAXPROCS(0)
	if numThreads < 1 {
		numThreads = 1
	}
	chunkSize := len(data) / numThreads
	if chunkSize == 0 {
		mutateArea(data, out, r, corpus)
		return
	}

	chunks := chunkSlice(data, chunkSize)
	results := make([][]byte, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i, chunk := i, chunk
		localPRNG := r.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			NiAreaParallel(chunk, n/numThreads, &buf, localPRNG, corpus)
			results[i] = buf.Bytes()
		}()
	}
	wg.Wait()

	for _, res := range results {
		out.Write(res)
	}
}

// NiAreaParallelHybrid mirrors ni_area_parallel_hybrid: the top recursion
// level fans out across goroutines exactly like NiAreaParallel, but each
// goroutine then runs the non-parallel, stack-based NiArea for every
// further level instead of spawning more goroutines.
func NiAreaParallelHybrid(data []byte, n int, out io.Writer, r *prng.Rng, corpus [][]byte) {
	if n == 1 || len(data) < 256 {
		mutateArea(data, out, r, corpus)
		return
	}

	numThreads := runtime.GOMAXPROCS(0)
	if numThreads < 1 {
		numThreads = 1
	}
	chunkSize := len(data) / numThreads
	if chunkSize == 0 {
		mutateArea(data, out, r, corpus)
		return
	}

	chunks := chunkSlice(data, chunkSize)
	results := make([][]byte, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i, chunk := i, chunk
		localPRNG := r.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			NiArea(chunk, n/numThreads, &buf, localPRNG, corpus)
			results[i] = buf.Bytes()
		}()
	}
	wg.Wait()

	for _, res := range results {
		out.Write(res)
	}
}

// niWorkItem is a single entry in NiArea's explicit work stack, replacing
// the original's recursion with an iterative loop. Mutate uses NiArea for
// inputs under 4096 bytes, and NiAreaParallelHybrid runs it in each of its
// goroutines.
type niWorkItem struct {
	data []byte
	n    int
}

// NiArea is the non-parallel, stack-based equivalent of NiAreaParallel.
func NiArea(data []byte, n int, out io.Writer, r *prng.Rng, corpus [][]byte) {
	stack := []niWorkItem{{data, n}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		length := len(item.data)
		if item.n == 1 || length < 256 {
			mutateArea(item.data, out, r, corpus)
			continue
		}

		split := prng.RandRange(r, 0, length)
		for split == 1 {
			split = prng.RandRange(r, 0, length)
		}
		rngMax := prng.RandRange(r, 0, item.n)
		newN := prng.RandRange(r, 0, item.n-rngMax)
		stack = append(stack, niWorkItem{item.data[split:], newN})
		stack = append(stack, niWorkItem{item.data[:split], item.n - newN})
	}
}

// chunkSlice splits data into contiguous chunks of chunkSize, with the
// final chunk absorbing any remainder — matching Rust's par_chunks, which
// likewise yields a shorter final chunk rather than padding.
func chunkSlice(data []byte, chunkSize int) [][]byte {
	var chunks [][]byte
	for i := 0; i < len(data); i += chunkSize {
		end := i + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}

// Mutate is the package entry point, matching ni_mutate: it first decides
// how many splitting rounds (n) to use, then dispatches to the stack-based
// NiArea for inputs under 4096 bytes or the goroutine-parallel hybrid
// variant for larger ones.
func Mutate(data []byte, dataSz int, r *prng.Rng, corpus [][]byte) []byte {
	var n int
	if r.Rand()&3 == 1 {
		n = 1
	} else {
		n = 2 + prng.RandRange(r, 0, dataSz>>(12+8))
	}

	var buf bytes.Buffer
	if dataSz < 4096 {
		NiArea(data, n, &buf, r, corpus)
	} else {
		NiAreaParallelHybrid(data, n, &buf, r, corpus)
	}
	return buf.Bytes()
}

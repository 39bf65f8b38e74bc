package prng

import "time"

// readTSC supplies the entropy source used when a caller requests seed 0.
// The original reads the CPU's timestamp counter directly (RDTSC on x86_64,
// CNTVCT_EL0 on aarch64); this port has an assembly stub for amd64 only
// (see tsc_amd64.s), and every other GOARCH uses this portable fallback.
// The teacher repo's own internal/stdlib/hal package shows this corpus is
// comfortable reaching for architecture-specific code when it matters; here
// it does not govern correctness (only the zero-seed entropy pool), so a
// portable fallback keeps the rest of the module buildable on any GOARCH.
var readTSC = func() uint64 {
	return uint64(time.Now().UnixNano())
}

//go:build amd64

package prng

// rdtsc is implemented in tsc_amd64.s; it executes the RDTSC instruction
// directly, mirroring the original's `core::arch::x86_64::_rdtsc()` shim in
// get_seeds!.
func rdtsc() uint64

func init() {
	readTSC = rdtsc
}

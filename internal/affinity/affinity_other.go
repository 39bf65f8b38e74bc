//go:build !linux
// +build !linux

package affinity

import "runtime"

// Non-Linux platforms have no portable syscall for per-thread core pinning
// exposed through golang.org/x/sys/unix (core_affinity itself only supports
// it on Linux, Windows, and BSD natively); availableCoreIDs still reports
// runtime.NumCPU logical IDs so Assign's "enough cores" check still works,
// but pin is a documented no-op here.
func availableCoreIDs() ([]int, error) {
	n := runtime.NumCPU()
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

func pin(coreID int) error {
	return nil
}

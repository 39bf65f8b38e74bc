// Package affinity pins fuzzer workers to distinct logical CPU cores,
// mirroring get_core_affinity/set_core_affinity in
// original_source/src/libs/utils/src/lib.rs (backed there by the
// core_affinity crate).
package affinity

import (
	"fmt"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

// Assign returns the first n logical core IDs available to this process,
// failing rather than oversubscribing when fewer than n cores exist —
// mirroring get_core_affinity's "Not enough cores available" error.
func Assign(n int) ([]int, error) {
	ids, err := availableCoreIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) < n {
		return nil, &ferrors.Error{
			Kind: ferrors.KindCoreIDsUnavailable,
			Message: fmt.Sprintf(
				"not enough cores available: requested %d, available %d", n, len(ids)),
		}
	}
	return ids[:n], nil
}

// Pin binds the calling OS thread to coreID. Workers that want one thread
// pinned per goroutine must call runtime.LockOSThread before calling Pin,
// otherwise the Go scheduler is free to move the goroutine to an unpinned
// thread on its next preemption point.
func Pin(coreID int) error {
	return pin(coreID)
}

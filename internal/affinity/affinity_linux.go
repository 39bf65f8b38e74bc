//go:build linux
// +build linux

package affinity

import (
	"golang.org/x/sys/unix"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

func availableCoreIDs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, ferrors.Wrap(ferrors.KindCoreIDsUnavailable, err)
	}
	ids := make([]int, 0, set.Count())
	for i := 0; i < unix.CPU_SETSIZE; i++ {
		if set.IsSet(i) {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

func pin(coreID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(coreID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return ferrors.Wrap(ferrors.KindCoreIDsUnavailable, err)
	}
	return nil
}

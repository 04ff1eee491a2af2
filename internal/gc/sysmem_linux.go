//go:build linux

package gc

import "golang.org/x/sys/unix"

// systemMemoryThreshold scales the GC's initial trigger to the host's
// installed RAM instead of always starting at DefaultInitialThreshold,
// so a heap-hungry embedding on a large machine doesn't collect every
// few hundred KiB before the allocator has any sense of how much room
// it actually has. 1/256th of total RAM was picked as a starting point
// generous enough to avoid a collection storm on boot while still
// bounded well under what a single host process should claim up
// front; ORUS_GC_INITIAL_THRESHOLD still overrides this outright.
func systemMemoryThreshold() int {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return DefaultInitialThreshold
	}
	total := uint64(info.Totalram) * uint64(info.Unit)
	frac := total / 256
	if frac < DefaultInitialThreshold || frac > 1<<62 {
		return DefaultInitialThreshold
	}
	return int(frac)
}

//go:build !linux

package gc

// systemMemoryThreshold has no portable way to query installed RAM
// outside Linux's Sysinfo syscall without pulling in a much heavier
// host-stats dependency than this port's GC trigger warrants, so every
// other platform keeps the fixed DefaultInitialThreshold.
func systemMemoryThreshold() int { return DefaultInitialThreshold }

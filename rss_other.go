//go:build !linux

package kosmo

import "golang.org/x/sys/unix"

// RSSHighWaterMark returns the process's peak resident set size, in bytes,
// for the memory run mode's final report. On BSD-derived kernels (darwin
// included) Maxrss is already reported in bytes, unlike Linux's KiB.
func RSSHighWaterMark() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return uint64(ru.Maxrss), nil
}

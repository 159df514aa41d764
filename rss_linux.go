//go:build linux

package kosmo

import "golang.org/x/sys/unix"

// RSSHighWaterMark returns the process's peak resident set size, in bytes,
// for the memory run mode's final report.
func RSSHighWaterMark() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	// Linux reports Maxrss in KiB.
	return uint64(ru.Maxrss) * 1024, nil
}

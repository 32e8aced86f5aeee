//go:build !windows

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

func monotonicNowNS() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// Extremely unlikely on any supported kernel; wall clock keeps the
		// session usable at the cost of adjustment immunity.
		return time.Now().UnixNano()
	}
	return ts.Nano()
}

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cycleclock

import (
	"time"

	"golang.org/x/sys/unix"
)

// WallClockMicros returns microseconds since the Unix epoch as reported by
// gettimeofday.
func WallClockMicros() uint64 {
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return uint64(time.Now().UnixMicro())
	}
	return uint64(tv.Sec)*WallClockFrequency + uint64(tv.Usec)
}

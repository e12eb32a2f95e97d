//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package cycleclock

import "time"

// WallClockMicros returns microseconds since the Unix epoch.
func WallClockMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

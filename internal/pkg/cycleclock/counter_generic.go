//go:build !amd64 && !arm64

package cycleclock

import "time"

// CounterName identifies the fallback timer.
const CounterName = "monotonic"

var genericEpoch = time.Now()

// readCounter returns monotonic nanoseconds since package init.
func readCounter() uint64 {
	return uint64(time.Since(genericEpoch).Nanoseconds())
}

func nativeFrequency() (uint64, Source) {
	return uint64(time.Second), SourceNominal
}

//go:build amd64

package cycleclock

// CounterName identifies the instruction Sample reads.
const CounterName = "rdtsc"

// readCounter executes RDTSC. The TSC has no architectural frequency
// register, so the rate is always calibrated.
func readCounter() uint64

func nativeFrequency() (uint64, Source) {
	return 0, SourceNone
}

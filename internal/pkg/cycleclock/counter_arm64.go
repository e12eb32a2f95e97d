//go:build arm64

package cycleclock

// CounterName identifies the register Sample reads.
const CounterName = "cntvct_el0"

// readCounter reads the virtual count register CNTVCT_EL0.
func readCounter() uint64

// readFrequencyRegister reads CNTFRQ_EL0, the counter rate programmed by firmware.
func readFrequencyRegister() uint64

func nativeFrequency() (uint64, Source) {
	if f := readFrequencyRegister(); f != 0 {
		return f, SourceRegister
	}
	return 0, SourceNone
}

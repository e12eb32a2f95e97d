// Package cycleclock reads the CPU's cycle counter and works out how fast it
// ticks.
//
// On amd64 the counter is RDTSC and its rate is estimated by comparing it
// against the OS wall clock. On arm64 the counter is CNTVCT_EL0 and its rate is
// read from CNTFRQ_EL0. Other architectures fall back to a nanosecond
// monotonic clock.
package cycleclock

import (
	"log/slog"
	"math"
	"math/bits"
	"sync"
	"time"
)

// WallClockFrequency is the resolution of WallClockMicros in ticks per second.
const WallClockFrequency uint64 = 1_000_000

// DefaultCalibrationWait is how long GuessFrequency watches the wall clock
// when no other duration is configured.
const DefaultCalibrationWait = time.Second

// Source says where a counter frequency came from.
type Source string

const (
	SourceNone       Source = ""
	SourceRegister   Source = "register"
	SourceCalibrated Source = "calibrated"
	SourceNominal    Source = "nominal"
)

func (s Source) String() string {
	if s == SourceNone {
		return "none"
	}
	return string(s)
}

// Option configures a Hardware clock.
type Option func(*Hardware)

// WithCalibrationWait sets how long calibration busy-waits.
func WithCalibrationWait(d time.Duration) Option {
	return func(h *Hardware) {
		if d > 0 {
			h.wait = d
		}
	}
}

// WithWallClock replaces the wall clock used for calibration.
func WithWallClock(fn func() uint64) Option {
	return func(h *Hardware) {
		if fn != nil {
			h.wall = fn
		}
	}
}

// ForceCalibration makes the clock calibrate even when the architecture
// exposes a frequency register.
func ForceCalibration() Option {
	return func(h *Hardware) {
		h.forceCalibrate = true
	}
}

// Hardware is the cycle counter of the running CPU.
type Hardware struct {
	wait           time.Duration
	wall           func() uint64
	forceCalibrate bool

	once   sync.Once
	freq   uint64
	source Source
}

// New creates a Hardware clock. The frequency is resolved lazily on the first
// FrequencyHint call so that constructing a clock never blocks.
func New(opts ...Option) *Hardware {
	h := &Hardware{
		wait: DefaultCalibrationWait,
		wall: WallClockMicros,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Sample returns the current counter value.
func (h *Hardware) Sample() uint64 {
	return readCounter()
}

// FrequencyHint returns the counter rate in ticks per second. The first call
// may busy-wait for the calibration duration.
func (h *Hardware) FrequencyHint() uint64 {
	h.resolve()
	return h.freq
}

// FrequencySource reports how FrequencyHint was obtained.
func (h *Hardware) FrequencySource() string {
	h.resolve()
	return h.source.String()
}

func (h *Hardware) resolve() {
	h.once.Do(func() {
		if !h.forceCalibrate {
			if f, src := nativeFrequency(); f != 0 {
				h.freq, h.source = f, src
				return
			}
		}

		start := time.Now()
		h.freq = GuessFrequency(h.Sample, h.wall, h.wait)
		h.source = SourceCalibrated
		slog.Debug("calibrated cycle counter",
			"counter", CounterName,
			"frequency", h.freq,
			"wait", h.wait,
			"took", time.Since(start),
		)
	})
}

// Spin busy-polls sample until it has advanced by at least ticks and returns
// the first and last readings.
func Spin(sample func() uint64, ticks uint64) (start, end uint64) {
	start = sample()
	end = start
	for end-start < ticks {
		end = sample()
	}
	return start, end
}

// GuessFrequency estimates the rate of counter by letting wall, a microsecond
// clock, run for wait and scaling the counter's progress to one second. The
// estimate gets better as wait grows.
func GuessFrequency(counter, wall func() uint64, wait time.Duration) uint64 {
	target := WallClockFrequency * uint64(wait.Milliseconds()) / 1000
	if target == 0 {
		target = 1
	}

	cpuStart := counter()
	wallStart, wallEnd := Spin(wall, target)
	cpuEnd := counter()

	return scale(cpuEnd-cpuStart, WallClockFrequency, wallEnd-wallStart)
}

// scale returns n*mul/div without overflowing the intermediate product.
func scale(n, mul, div uint64) uint64 {
	hi, lo := bits.Mul64(n, mul)
	if hi >= div {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, div)
	return q
}

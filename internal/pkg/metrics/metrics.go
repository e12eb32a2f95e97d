package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// Registry holds every collector of this package. It is separate from the
// default registry so that a textfile dump contains pipeline metrics only.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Pipeline metrics
	PhaseCycles = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "haversine",
		Subsystem: "pipeline",
		Name:      "phase_cycles",
		Help:      "Cycle counter ticks spent in each phase of the last processing run",
	}, []string{"phase"})

	PhaseShare = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "haversine",
		Subsystem: "pipeline",
		Name:      "phase_share_ratio",
		Help:      "Share of the last processing run spent in each phase (0-1)",
	}, []string{"phase"})

	RunDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "haversine",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Processing run duration derived from the cycle counter",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haversine",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Processing runs by outcome",
	}, []string{"outcome"})

	PairsParsed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "haversine",
		Subsystem: "parser",
		Name:      "pairs_total",
		Help:      "Coordinate pairs parsed",
	})

	AverageDistance = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "haversine",
		Subsystem: "pipeline",
		Name:      "average_distance",
		Help:      "Average haversine distance computed by the last processing run",
	})

	// Generator metrics
	PairsGenerated = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haversine",
		Subsystem: "generator",
		Name:      "pairs_total",
		Help:      "Coordinate pairs generated by mode",
	}, []string{"mode"})

	// Clock metrics
	CounterFrequency = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "haversine",
		Subsystem: "cycleclock",
		Name:      "frequency_hertz",
		Help:      "Cycle counter frequency in use, by how it was obtained",
	}, []string{"source"})
)

// Run outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveRun records a successful processing run.
func ObserveRun(r *domain.Result) {
	for _, p := range r.Report.Phases {
		PhaseCycles.WithLabelValues(p.Name).Set(float64(p.Cycles))
		PhaseShare.WithLabelValues(p.Name).Set(p.Percent / 100)
	}
	RunDuration.Observe(r.Report.Seconds)
	RunsTotal.WithLabelValues(OutcomeOK).Inc()
	PairsParsed.Add(float64(r.Count))
	AverageDistance.Set(r.Average)
	CounterFrequency.WithLabelValues(r.Report.FrequencySource).Set(float64(r.Report.Frequency))
}

// ObserveFailure records a processing run that aborted.
func ObserveFailure() {
	RunsTotal.WithLabelValues(OutcomeError).Inc()
}

// ObserveGeneration records a generator run.
func ObserveGeneration(mode string, pairs int) {
	PairsGenerated.WithLabelValues(mode).Add(float64(pairs))
}

// ObserveClock records the frequency of any clock exposing one.
func ObserveClock(clock interface{}) {
	type frequencyClock interface {
		FrequencyHint() uint64
		FrequencySource() string
	}

	if c, ok := clock.(frequencyClock); ok {
		CounterFrequency.WithLabelValues(c.FrequencySource()).Set(float64(c.FrequencyHint()))
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

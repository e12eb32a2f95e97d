package telemetry

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// Span names.
const (
	SpanProcess  = "haversine.process"
	SpanGenerate = "haversine.generate"
)

// Attribute keys.
const (
	AttrInput           = attribute.Key("haversine.input")
	AttrPairs           = attribute.Key("haversine.pairs")
	AttrAverage         = attribute.Key("haversine.average")
	AttrMode            = attribute.Key("haversine.generator.mode")
	AttrSeed            = attribute.Key("haversine.generator.seed")
	AttrTotalCycles     = attribute.Key("haversine.cycles.total")
	AttrFrequency       = attribute.Key("haversine.cycles.frequency")
	AttrFrequencySource = attribute.Key("haversine.cycles.frequency_source")
)

// PhaseCyclesKey is the attribute key carrying the cycles of one phase.
func PhaseCyclesKey(phase string) attribute.Key {
	return attribute.Key("haversine.phase." + phase + ".cycles")
}

// ReportAttributes flattens a phase report into span attributes.
func ReportAttributes(r domain.PhaseReport) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(r.Phases)+3)
	for _, p := range r.Phases {
		attrs = append(attrs, PhaseCyclesKey(p.Name).Int64(int64(p.Cycles)))
	}
	attrs = append(attrs,
		AttrTotalCycles.Int64(int64(r.TotalCycles)),
		AttrFrequency.Int64(int64(r.Frequency)),
		AttrFrequencySource.String(r.FrequencySource),
	)
	return attrs
}

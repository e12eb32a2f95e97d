package domain

import (
	"fmt"
	"io"
)

// Phase names, in pipeline order.
const (
	PhaseRead  = "read"
	PhaseSetup = "setup"
	PhaseParse = "parse"
	PhaseSum   = "sum"
)

var phaseLabels = map[string]string{
	PhaseRead:  "File read",
	PhaseSetup: "Vars setup",
	PhaseParse: "Parsing",
	PhaseSum:   "Sum",
}

// PhaseTimestamps are the cycle counter samples taken at the boundaries of
// one processing run.
type PhaseTimestamps struct {
	Start uint64
	Read  uint64
	Setup uint64
	Parse uint64
	Sum   uint64
}

// Phase is the cost of one pipeline phase.
type Phase struct {
	Name    string  `json:"name" yaml:"name"`
	Cycles  uint64  `json:"cycles" yaml:"cycles"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Label is the human readable phase name.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p.Name]; ok {
		return l
	}
	return p.Name
}

// PhaseReport is the per-phase breakdown of a processing run.
type PhaseReport struct {
	Phases          []Phase `json:"phases" yaml:"phases"`
	TotalCycles     uint64  `json:"total_cycles" yaml:"total_cycles"`
	Frequency       uint64  `json:"frequency" yaml:"frequency"`
	FrequencySource string  `json:"frequency_source" yaml:"frequency_source"`
	Seconds         float64 `json:"seconds" yaml:"seconds"`
}

// NewPhaseReport derives phase durations from ts. freq converts cycles to
// seconds; a zero freq leaves Seconds at zero.
func NewPhaseReport(ts PhaseTimestamps, freq uint64, source string) PhaseReport {
	total := ts.Sum - ts.Start
	durations := []struct {
		name   string
		cycles uint64
	}{
		{PhaseRead, ts.Read - ts.Start},
		{PhaseSetup, ts.Setup - ts.Read},
		{PhaseParse, ts.Parse - ts.Setup},
		{PhaseSum, ts.Sum - ts.Parse},
	}

	r := PhaseReport{
		Phases:          make([]Phase, 0, len(durations)),
		TotalCycles:     total,
		Frequency:       freq,
		FrequencySource: source,
	}
	for _, d := range durations {
		var pct float64
		if total > 0 {
			pct = 100 * float64(d.cycles) / float64(total)
		}
		r.Phases = append(r.Phases, Phase{Name: d.name, Cycles: d.cycles, Percent: pct})
	}
	if freq > 0 {
		r.Seconds = float64(total) / float64(freq)
	}
	return r
}

// Phase looks up a phase by name.
func (r PhaseReport) Phase(name string) (Phase, bool) {
	for _, p := range r.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// WriteText renders the report in the plain layout printed by the processor.
func (r PhaseReport) WriteText(w io.Writer) error {
	for _, p := range r.Phases {
		if _, err := fmt.Fprintf(w, "%s: %d (%.2f%%)\n", p.Label(), p.Cycles, p.Percent); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total: %d\nTotal time: %.3fs (CPU Freq %d, %s)\n",
		r.TotalCycles, r.Seconds, r.Frequency, r.FrequencySource)
	return err
}

// Result is the outcome of one processing run.
type Result struct {
	Average float64     `json:"average" yaml:"average"`
	Count   int         `json:"count" yaml:"count"`
	Report  PhaseReport `json:"report" yaml:"report"`
}

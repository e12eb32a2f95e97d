package usecases

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/haversine/internal/core/domain"
	"github.com/samirrijal/haversine/internal/core/ports"
	"github.com/samirrijal/haversine/internal/pkg/geospatial"
	"github.com/samirrijal/haversine/internal/pkg/telemetry"
)

// ProcessService reads a pairs file, averages the haversine distance of its
// pairs and times each phase of the run with a cycle clock.
type ProcessService struct {
	store     ports.PairStore
	clock     ports.CycleClock
	newParser func() ports.PairParser
	radius    float64
}

// NewProcessService creates a new ProcessService. newParser is called once
// per run, inside the setup phase.
func NewProcessService(store ports.PairStore, clock ports.CycleClock, newParser func() ports.PairParser, radius float64) *ProcessService {
	return &ProcessService{store: store, clock: clock, newParser: newParser, radius: radius}
}

// Process runs the pipeline over the file at path. On any read or parse
// failure no result is returned.
func (s *ProcessService) Process(ctx context.Context, path string) (*domain.Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanProcess,
		trace.WithAttributes(telemetry.AttrInput.String(path)))
	defer span.End()

	var ts domain.PhaseTimestamps

	ts.Start = s.clock.Sample()
	data, err := s.store.ReadInput(ctx, path)
	if err != nil {
		return nil, spanError(span, err)
	}
	ts.Read = s.clock.Sample()

	parser := s.newParser()
	r := bytes.NewReader(data)
	ts.Setup = s.clock.Sample()

	pairs, err := parser.Parse(r)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("parse %s: %w", path, err))
	}
	ts.Parse = s.clock.Sample()

	avg := geospatial.Average(pairs, s.radius)
	ts.Sum = s.clock.Sample()

	report := domain.NewPhaseReport(ts, s.clock.FrequencyHint(), s.clock.FrequencySource())

	span.SetAttributes(telemetry.AttrPairs.Int(len(pairs)), telemetry.AttrAverage.Float64(avg))
	span.SetAttributes(telemetry.ReportAttributes(report)...)

	slog.Debug("processed pairs file",
		"path", path,
		"bytes", len(data),
		"pairs", len(pairs),
		"total_cycles", report.TotalCycles,
	)

	return &domain.Result{Average: avg, Count: len(pairs), Report: report}, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

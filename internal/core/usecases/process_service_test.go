package usecases_test

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/samirrijal/haversine/internal/adapters/pairfile"
	"github.com/samirrijal/haversine/internal/core/domain"
	"github.com/samirrijal/haversine/internal/core/ports"
	"github.com/samirrijal/haversine/internal/core/usecases"
	"github.com/samirrijal/haversine/internal/pkg/geospatial"
)

// --- Mock PairStore ---

type mockStore struct {
	readInputFn     func(ctx context.Context, path string) ([]byte, error)
	readExpectedFn  func(ctx context.Context, path string) (float64, error)
	writeInputFn    func(ctx context.Context, path string, pairs []domain.CoordinatePair) error
	truncateInputFn func(ctx context.Context, path string) error
	writeExpectedFn func(ctx context.Context, path string, avg float64) error
}

func (m *mockStore) ReadInput(ctx context.Context, path string) ([]byte, error) {
	if m.readInputFn != nil {
		return m.readInputFn(ctx, path)
	}
	return nil, nil
}

func (m *mockStore) ReadExpected(ctx context.Context, path string) (float64, error) {
	if m.readExpectedFn != nil {
		return m.readExpectedFn(ctx, path)
	}
	return 0, nil
}

func (m *mockStore) WriteInput(ctx context.Context, path string, pairs []domain.CoordinatePair) error {
	if m.writeInputFn != nil {
		return m.writeInputFn(ctx, path, pairs)
	}
	return nil
}

func (m *mockStore) TruncateInput(ctx context.Context, path string) error {
	if m.truncateInputFn != nil {
		return m.truncateInputFn(ctx, path)
	}
	return nil
}

func (m *mockStore) WriteExpected(ctx context.Context, path string, avg float64) error {
	if m.writeExpectedFn != nil {
		return m.writeExpectedFn(ctx, path, avg)
	}
	return nil
}

// --- Fake CycleClock ---

// stepClock advances by step on every sample.
type stepClock struct {
	now    uint64
	step   uint64
	freq   uint64
	onTick func()
}

func (c *stepClock) Sample() uint64 {
	if c.onTick != nil {
		c.onTick()
	}
	c.now += c.step
	return c.now
}

func (c *stepClock) FrequencyHint() uint64   { return c.freq }
func (c *stepClock) FrequencySource() string { return "fake" }

// --- Mock PairParser ---

type mockParser struct {
	parseFn func(r io.Reader) ([]domain.CoordinatePair, error)
}

func (m *mockParser) Parse(r io.Reader) ([]domain.CoordinatePair, error) {
	return m.parseFn(r)
}

func realParser() ports.PairParser { return pairfile.NewParser() }

func staticInput(content string) *mockStore {
	return &mockStore{
		readInputFn: func(ctx context.Context, path string) ([]byte, error) {
			return []byte(content), nil
		},
	}
}

func TestProcessService_Process(t *testing.T) {
	store := staticInput(`{"pairs": [{"x0":0, "y0":0, "x1":10, "y1":0}, {"x0":0, "y0":0, "x1":0, "y1":0}]}`)
	clock := &stepClock{step: 10, freq: 1000}

	svc := usecases.NewProcessService(store, clock, realParser, geospatial.EarthRadiusKm)
	result, err := svc.Process(context.Background(), "input.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("expected 2 pairs, got %d", result.Count)
	}
	want := geospatial.EarthRadiusKm * 10 * math.Pi / 180 / 2
	if math.Abs(result.Average-want) > 1e-9 {
		t.Errorf("expected average %v, got %v", want, result.Average)
	}

	report := result.Report
	if report.TotalCycles != 40 {
		t.Errorf("expected 40 total cycles, got %d", report.TotalCycles)
	}
	for _, p := range report.Phases {
		if p.Cycles != 10 || p.Percent != 25 {
			t.Errorf("phase %s: expected 10 cycles at 25%%, got %d at %v", p.Name, p.Cycles, p.Percent)
		}
	}
	if report.Seconds != 0.04 {
		t.Errorf("expected 0.04s, got %v", report.Seconds)
	}
	if report.FrequencySource != "fake" {
		t.Errorf("expected source fake, got %s", report.FrequencySource)
	}
}

func TestProcessService_PhaseBoundaries(t *testing.T) {
	var events []string
	record := func(e string) { events = append(events, e) }

	store := &mockStore{
		readInputFn: func(ctx context.Context, path string) ([]byte, error) {
			record("read")
			return []byte(`{"pairs": []}`), nil
		},
	}
	clock := &stepClock{step: 1, onTick: func() { record("sample") }}
	newParser := func() ports.PairParser {
		record("setup")
		return &mockParser{parseFn: func(r io.Reader) ([]domain.CoordinatePair, error) {
			record("parse")
			return nil, nil
		}}
	}

	svc := usecases.NewProcessService(store, clock, newParser, geospatial.EarthRadiusKm)
	if _, err := svc.Process(context.Background(), "input.json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "sample read sample setup sample parse sample sample"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestProcessService_EmptyArray(t *testing.T) {
	svc := usecases.NewProcessService(staticInput(`{"pairs": []}`), &stepClock{step: 1}, realParser, geospatial.EarthRadiusKm)

	result, err := svc.Process(context.Background(), "input.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("expected 0 pairs, got %d", result.Count)
	}
	if !math.IsNaN(result.Average) {
		t.Errorf("expected NaN average for no pairs, got %v", result.Average)
	}
}

func TestProcessService_ParseError(t *testing.T) {
	store := staticInput(`{"pairs": [{"x0":1, "y0":2, "x1":3, "y1":4}, {"x0":1, "y0":2}]}`)
	svc := usecases.NewProcessService(store, &stepClock{step: 1}, realParser, geospatial.EarthRadiusKm)

	result, err := svc.Process(context.Background(), "input.json")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if result != nil {
		t.Errorf("expected no result on error, got %+v", result)
	}
	if !errors.Is(err, pairfile.ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}

	var perr *pairfile.ParseError
	if !errors.As(err, &perr) || perr.Object != 1 {
		t.Errorf("expected failure on object 1, got %v", err)
	}
}

func TestProcessService_ReadError(t *testing.T) {
	store := &mockStore{
		readInputFn: func(ctx context.Context, path string) ([]byte, error) {
			return nil, os.ErrNotExist
		},
	}
	parsed := false
	newParser := func() ports.PairParser {
		parsed = true
		return pairfile.NewParser()
	}

	svc := usecases.NewProcessService(store, &stepClock{step: 1}, newParser, geospatial.EarthRadiusKm)
	result, err := svc.Process(context.Background(), "missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if result != nil || parsed {
		t.Error("nothing should run after a failed read")
	}
}

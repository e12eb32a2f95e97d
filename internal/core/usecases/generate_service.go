package usecases

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/haversine/internal/core/domain"
	"github.com/samirrijal/haversine/internal/core/ports"
	"github.com/samirrijal/haversine/internal/pkg/geospatial"
	"github.com/samirrijal/haversine/internal/pkg/telemetry"
)

// Generator modes.
const (
	ModeUniform = "uniform"
	ModeCluster = "cluster"
)

// UnknownModeAverage is written as the expected average when the mode is not
// recognised.
const UnknownModeAverage = -1.0

// ErrUnknownMode is logged when a generator mode is not recognised.
var ErrUnknownMode = errors.New("unknown generator mode")

// ClusterShape controls the cluster mode: Count centres, each spreading
// points RadiusX degrees of longitude and RadiusY degrees of latitude.
type ClusterShape struct {
	Count   int
	RadiusX float64
	RadiusY float64
}

// DefaultClusterShape is 64 clusters of ±5° longitude by ±10° latitude.
var DefaultClusterShape = ClusterShape{Count: 64, RadiusX: 5, RadiusY: 10}

// GenerateRequest describes one generator run.
type GenerateRequest struct {
	Mode         string
	Seed         uint64
	Pairs        uint64
	InputPath    string
	ExpectedPath string
}

// GenerateResult summarises a generator run.
type GenerateResult struct {
	Mode    string  `json:"mode" yaml:"mode"`
	Seed    uint64  `json:"seed" yaml:"seed"`
	Pairs   int     `json:"pairs" yaml:"pairs"`
	Average float64 `json:"average" yaml:"average"`
}

// GenerateService writes random pairs files along with their expected
// average distance.
type GenerateService struct {
	store  ports.PairStore
	radius float64
	shape  ClusterShape
}

// NewGenerateService creates a new GenerateService.
// A shape without clusters falls back to DefaultClusterShape.
func NewGenerateService(store ports.PairStore, radius float64, shape ClusterShape) *GenerateService {
	if shape.Count <= 0 {
		shape = DefaultClusterShape
	}
	return &GenerateService{store: store, radius: radius, shape: shape}
}

// Generate produces req.Pairs pairs from a PCG stream seeded with req.Seed.
// The same request always yields the same files.
//
// An unknown mode is not an error: the input file is truncated and the
// expected file holds UnknownModeAverage.
func (s *GenerateService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanGenerate,
		trace.WithAttributes(
			telemetry.AttrMode.String(req.Mode),
			telemetry.AttrSeed.Int64(int64(req.Seed)),
		))
	defer span.End()

	rng := rand.New(rand.NewPCG(req.Seed, req.Seed))

	var pairs []domain.CoordinatePair
	switch req.Mode {
	case ModeUniform:
		pairs = s.uniform(rng, req.Pairs)
	case ModeCluster:
		pairs = s.cluster(rng, req.Pairs)
	default:
		slog.Warn("skipping generation", "mode", req.Mode, "error", ErrUnknownMode)
		if err := s.store.TruncateInput(ctx, req.InputPath); err != nil {
			return nil, spanError(span, err)
		}
		if err := s.store.WriteExpected(ctx, req.ExpectedPath, UnknownModeAverage); err != nil {
			return nil, spanError(span, err)
		}
		return &GenerateResult{Mode: req.Mode, Seed: req.Seed, Average: UnknownModeAverage}, nil
	}

	avg := geospatial.Average(pairs, s.radius)

	if err := s.store.WriteInput(ctx, req.InputPath, pairs); err != nil {
		return nil, spanError(span, err)
	}
	if err := s.store.WriteExpected(ctx, req.ExpectedPath, avg); err != nil {
		return nil, spanError(span, err)
	}

	span.SetAttributes(telemetry.AttrPairs.Int(len(pairs)), telemetry.AttrAverage.Float64(avg))
	slog.Debug("generated pairs file", "mode", req.Mode, "pairs", len(pairs), "path", req.InputPath)

	return &GenerateResult{Mode: req.Mode, Seed: req.Seed, Pairs: len(pairs), Average: avg}, nil
}

func (s *GenerateService) uniform(rng *rand.Rand, n uint64) []domain.CoordinatePair {
	pairs := make([]domain.CoordinatePair, 0, n)
	for range n {
		pairs = append(pairs, randomPair(rng, domain.WorldBounds))
	}
	return pairs
}

func (s *GenerateService) cluster(rng *rand.Rand, n uint64) []domain.CoordinatePair {
	boxes := make([]domain.Bounds, s.shape.Count)
	for i := range boxes {
		center := domain.WorldBounds.Lerp(rng.Float64(), rng.Float64())
		boxes[i] = geospatial.BoundingBox(center, s.shape.RadiusX, s.shape.RadiusY)
	}

	pairs := make([]domain.CoordinatePair, 0, n)
	for i := range n {
		pairs = append(pairs, randomPair(rng, boxes[i%uint64(len(boxes))]))
	}
	return pairs
}

// randomPair draws x0, y0, x1, y1 in that order.
func randomPair(rng *rand.Rand, b domain.Bounds) domain.CoordinatePair {
	from := b.Lerp(rng.Float64(), rng.Float64())
	to := b.Lerp(rng.Float64(), rng.Float64())
	return domain.NewCoordinatePair(from, to)
}

package ports

import (
	"context"
	"io"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// CycleClock is a high resolution tick counter.
type CycleClock interface {
	// Sample returns a monotonically nondecreasing tick count.
	Sample() uint64
	// FrequencyHint returns ticks per second, measured or estimated.
	FrequencyHint() uint64
	// FrequencySource names how FrequencyHint was obtained.
	FrequencySource() string
}

// PairParser decodes a pairs file.
type PairParser interface {
	Parse(r io.Reader) ([]domain.CoordinatePair, error)
}

// PairStore persists pairs files and expected-average files.
type PairStore interface {
	ReadInput(ctx context.Context, path string) ([]byte, error)
	ReadExpected(ctx context.Context, path string) (float64, error)
	WriteInput(ctx context.Context, path string, pairs []domain.CoordinatePair) error
	TruncateInput(ctx context.Context, path string) error
	WriteExpected(ctx context.Context, path string, avg float64) error
}

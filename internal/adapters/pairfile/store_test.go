package pairfile

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_InputRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "input.json")
	s := NewFileStore()

	require.NoError(t, s.WriteInput(ctx, path, samplePairs))

	data, err := s.ReadInput(ctx, path)
	require.NoError(t, err)

	pairs, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, samplePairs, pairs)
}

func TestFileStore_Expected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore()

	for _, v := range []float64{10004.112349781231, -1, 0, 1e-9} {
		path := filepath.Join(dir, "expected.f64")
		require.NoError(t, s.WriteExpected(ctx, path, v))

		got, err := s.ReadExpected(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestFileStore_ExpectedNaN(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expected.f64")
	s := NewFileStore()

	require.NoError(t, s.WriteExpected(ctx, path, math.NaN()))

	got, err := s.ReadExpected(ctx, path)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestFileStore_ExpectedTolerantOfNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expected.f64")
	require.NoError(t, os.WriteFile(path, []byte("42.5\n"), 0o644))

	got, err := NewFileStore().ReadExpected(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, 42.5, got)
}

func TestFileStore_ExpectedGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expected.f64")
	require.NoError(t, os.WriteFile(path, []byte("forty-two"), 0o644))

	_, err := NewFileStore().ReadExpected(context.Background(), path)

	assert.Error(t, err)
}

func TestFileStore_MissingInput(t *testing.T) {
	_, err := NewFileStore().ReadInput(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStore_TruncateInput(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "input.json")
	s := NewFileStore()
	require.NoError(t, s.WriteInput(ctx, path, samplePairs))

	require.NoError(t, s.TruncateInput(ctx, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileStore().ReadInput(ctx, "unused")

	assert.ErrorIs(t, err, context.Canceled)
}

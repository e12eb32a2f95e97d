package pairfile

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// FileStore implements ports.PairStore on the local filesystem.
type FileStore struct{}

// NewFileStore creates a new FileStore.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// ReadInput returns the whole content of the pairs file. The file is closed
// before ReadInput returns.
func (s *FileStore) ReadInput(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// ReadExpected parses the single float literal stored at path.
func (s *FileStore) ReadExpected(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read expected: %w", err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse expected %s: %w", path, err)
	}
	return v, nil
}

// WriteInput writes pairs to path, replacing any existing file.
func (s *FileStore) WriteInput(ctx context.Context, path string, pairs []domain.CoordinatePair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create input: %w", err)
	}
	if err := Encode(f, pairs); err != nil {
		f.Close()
		return fmt.Errorf("write input %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close input %s: %w", path, err)
	}
	return nil
}

// TruncateInput leaves an empty file at path.
func (s *FileStore) TruncateInput(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("truncate input: %w", err)
	}
	return nil
}

// WriteExpected stores avg as a float literal.
func (s *FileStore) WriteExpected(ctx context.Context, path string, avg float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(FormatFloat(avg)), 0o644); err != nil {
		return fmt.Errorf("write expected: %w", err)
	}
	return nil
}

package pairfile

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/samirrijal/haversine/internal/core/domain"
)

const (
	fieldSeparator = ','
	quote          = '"'
	keySeparator   = ':'
)

var (
	// ErrMalformedField means a field is not of the form "key":value.
	ErrMalformedField = errors.New("malformed field")
	// ErrInvalidNumber means a field value is not a float literal.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrMissingField means an object lacks one of x0, y0, x1, y1.
	ErrMissingField = errors.New("missing field")
	// ErrUnterminated means the input ended inside the pairs array.
	ErrUnterminated = errors.New("unterminated pairs array")
)

// ParseError locates a failure in the input.
type ParseError struct {
	// Object is the zero-based index of the object being parsed.
	Object int
	// Chunk is the offending field text with whitespace removed, if any.
	Chunk string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Chunk != "" {
		return fmt.Sprintf("pairfile: object %d: field %q: %v", e.Object, e.Chunk, e.Err)
	}
	return fmt.Sprintf("pairfile: object %d: %v", e.Object, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const (
	hasX0 uint8 = 1 << iota
	hasY0
	hasX1
	hasY1

	hasAll = hasX0 | hasY0 | hasX1 | hasY1
)

// splitFields decodes the text between one pair of object braces. Unknown
// keys are ignored and a repeated key keeps its last value.
func splitFields(object int, buf []byte) (domain.CoordinatePair, error) {
	var pair domain.CoordinatePair
	var seen uint8

	for chunk := range bytes.SplitSeq(buf, []byte{fieldSeparator}) {
		key, tail, ok := splitChunk(chunk)
		if !ok || len(tail) == 0 || tail[0] != keySeparator {
			return pair, &ParseError{Object: object, Chunk: string(chunk), Err: ErrMalformedField}
		}

		value, err := strconv.ParseFloat(string(tail[1:]), 64)
		if err != nil {
			return pair, &ParseError{Object: object, Chunk: string(chunk), Err: fmt.Errorf("%w: %w", ErrInvalidNumber, err)}
		}

		switch string(key) {
		case "x0":
			pair.X0 = value
			seen |= hasX0
		case "y0":
			pair.Y0 = value
			seen |= hasY0
		case "x1":
			pair.X1 = value
			seen |= hasX1
		case "y1":
			pair.Y1 = value
			seen |= hasY1
		}
	}

	if seen != hasAll {
		return pair, &ParseError{Object: object, Err: fmt.Errorf("%w: %s", ErrMissingField, missingKeys(seen))}
	}
	return pair, nil
}

// splitChunk splits a field on the quote character, dropping empty segments,
// and expects exactly a key and a value tail.
func splitChunk(chunk []byte) (key, tail []byte, ok bool) {
	n := 0
	for seg := range bytes.SplitSeq(chunk, []byte{quote}) {
		if len(seg) == 0 {
			continue
		}
		switch n {
		case 0:
			key = seg
		case 1:
			tail = seg
		default:
			return nil, nil, false
		}
		n++
	}
	return key, tail, n == 2
}

func missingKeys(seen uint8) string {
	var missing []byte
	for _, k := range []struct {
		bit  uint8
		name string
	}{{hasX0, "x0"}, {hasY0, "y0"}, {hasX1, "x1"}, {hasY1, "y1"}} {
		if seen&k.bit != 0 {
			continue
		}
		if len(missing) > 0 {
			missing = append(missing, ", "...)
		}
		missing = append(missing, k.name...)
	}
	return string(missing)
}

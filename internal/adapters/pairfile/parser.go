// Package pairfile reads and writes the coordinate pairs file:
//
//	{"pairs": [ {"x0":<float>, "y0":<float>, "x1":<float>, "y1":<float>}, ... ]}
//
// The reader is a single-pass state machine over raw bytes, not a JSON
// decoder. It only knows about the array and object delimiters, the field
// separator and the text of fields; anything before the array opens and after
// it closes is skipped.
package pairfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/samirrijal/haversine/internal/core/domain"
)

const (
	arrayOpen   = '['
	arrayClose  = ']'
	objectOpen  = '{'
	objectClose = '}'
)

// maxLineLength bounds a single line; compact files put every pair on one.
const maxLineLength = 1 << 30

// State is the position of the parser relative to the pairs array.
type State uint8

const (
	// StateSearching drops everything until the array opens.
	StateSearching State = iota
	// StateInArray is just after the array opened.
	StateInArray
	// StateInObject accumulates field text until the object closes.
	StateInObject
	// StateBetweenObjects is after an object closed, inside the array.
	StateBetweenObjects
	// StateDone ignores the rest of the input.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateInArray:
		return "in_array"
	case StateInObject:
		return "in_object"
	case StateBetweenObjects:
		return "between_objects"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// IsIgnored reports whether c is formatting whitespace that never reaches the
// state machine.
func IsIgnored(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t':
		return true
	}
	return false
}

// Parser turns a stream of lines into coordinate pairs. A Parser is not safe
// for concurrent use.
type Parser struct {
	state State
	field []byte
	pairs []domain.CoordinatePair
	err   error
}

// NewParser returns a parser in the searching state.
func NewParser() *Parser {
	return &Parser{field: make([]byte, 0, 128)}
}

// State returns the current automaton state.
func (p *Parser) State() State {
	return p.state
}

// Reset discards all progress so the parser can be reused.
func (p *Parser) Reset() {
	p.state = StateSearching
	p.field = p.field[:0]
	p.pairs = nil
	p.err = nil
}

// Feed consumes the next chunk of input. Line boundaries carry no meaning;
// chunks are treated as one continuous stream. After the first error every
// call returns that error.
func (p *Parser) Feed(line []byte) error {
	if p.err != nil {
		return p.err
	}

	for _, c := range line {
		if IsIgnored(c) {
			continue
		}

		switch p.state {
		case StateSearching:
			if c == arrayOpen {
				p.state = StateInArray
			}
		case StateInArray, StateBetweenObjects:
			switch c {
			case objectOpen:
				p.state = StateInObject
			case arrayClose:
				p.state = StateDone
			}
		case StateInObject:
			if c != objectClose {
				p.field = append(p.field, c)
				continue
			}
			pair, err := splitFields(len(p.pairs), p.field)
			if err != nil {
				p.fail(err)
				return err
			}
			p.pairs = append(p.pairs, pair)
			p.field = p.field[:0]
			p.state = StateBetweenObjects
		case StateDone:
			return nil
		}
	}
	return nil
}

// Finish ends the stream and hands the parsed pairs to the caller. It fails
// if the array was opened but never closed.
func (p *Parser) Finish() ([]domain.CoordinatePair, error) {
	if p.err != nil {
		return nil, p.err
	}

	switch p.state {
	case StateInArray, StateInObject, StateBetweenObjects:
		p.fail(&ParseError{Object: len(p.pairs), Err: fmt.Errorf("%w (stopped %s)", ErrUnterminated, p.state)})
		return nil, p.err
	}

	pairs := p.pairs
	p.pairs = nil
	return pairs, nil
}

// Parse reads r line by line and returns every pair in file order. Nothing
// is returned on error.
func (p *Parser) Parse(r io.Reader) ([]domain.CoordinatePair, error) {
	p.Reset()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		if err := p.Feed(sc.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("pairfile: scan: %w", err)
	}
	return p.Finish()
}

// Parse is a convenience wrapper around a fresh Parser.
func Parse(r io.Reader) ([]domain.CoordinatePair, error) {
	return NewParser().Parse(r)
}

func (p *Parser) fail(err error) {
	p.err = err
	p.pairs = nil
	p.field = p.field[:0]
}

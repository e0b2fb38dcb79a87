package cif

import (
	"errors"
	"fmt"
	"io"
)

type State int

const (
	StateReady State = iota
	StateSuspended
	StateAborted
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSuspended:
		return "suspended"
	case StateAborted:
		return "aborted"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ErrParserClosed is returned by Feed once the input has been closed.
var ErrParserClosed = errors.New("cif: parser input is closed")

// Parser pulls records off a byte buffer one at a time. A Parser is not safe
// for concurrent use; independent inputs use independent parsers.
type Parser struct {
	buf    []byte
	cursor int
	// discarded counts bytes dropped from the front of buf by compaction.
	discarded int64
	final     bool
	state     State
	err       error
}

// NewParser parses a complete input. Running out of bytes mid record is
// reported as truncation.
func NewParser(b []byte) *Parser {
	return &Parser{buf: b, final: true}
}

// NewStreamParser parses input supplied incrementally with Feed.
func NewStreamParser() *Parser {
	return &Parser{}
}

// Feed appends more input. A suspended parser becomes ready again.
func (p *Parser) Feed(b []byte) error {
	if p.final {
		return ErrParserClosed
	}
	if p.state == StateAborted {
		return p.err
	}

	p.compact()
	p.buf = append(p.buf, b...)

	if p.state == StateSuspended {
		p.state = StateReady
	}

	return nil
}

// Close marks the input as complete. Any partial record left in the buffer
// becomes a truncation error on the next call to Next.
func (p *Parser) Close() {
	p.final = true

	if p.state == StateSuspended {
		p.state = StateReady
	}
}

// Next returns the next record. It returns io.EOF once the input is exhausted.
// In stream mode an error wrapping ErrIncomplete means more input is needed;
// the cursor is left untouched and Next can be retried after Feed.
// Any other error aborts the parser and is returned by every later call.
func (p *Parser) Next() (Record, error) {
	switch p.state {
	case StateAborted:
		return nil, p.err
	case StateExhausted:
		return nil, io.EOF
	}

	remaining := p.buf[p.cursor:]

	if len(remaining) == 0 {
		if p.final {
			p.state = StateExhausted
			return nil, io.EOF
		}

		p.state = StateSuspended
		return nil, incompleteError(remaining, 0, p.Offset(), "", "record_identity", 2)
	}

	record, consumed, err := Decode(remaining, p.Offset())
	if err != nil {
		if truncated(err) && !p.final {
			p.state = StateSuspended
			return nil, err
		}

		p.state = StateAborted
		if truncated(err) {
			p.err = fmt.Errorf("cif: input truncated: %w", err)
		} else {
			p.err = err
		}

		return nil, p.err
	}

	p.cursor += consumed
	p.state = StateReady

	return record, nil
}

func (p *Parser) State() State {
	return p.state
}

// Offset is the absolute position of the cursor within the input.
func (p *Parser) Offset() int64 {
	return p.discarded + int64(p.cursor)
}

// Buffered is the number of received bytes not yet consumed.
func (p *Parser) Buffered() int {
	return len(p.buf) - p.cursor
}

// Err returns the error that aborted the parser, if any.
func (p *Parser) Err() error {
	return p.err
}

func (p *Parser) compact() {
	if p.cursor == 0 {
		return
	}

	p.discarded += int64(p.cursor)
	p.buf = append(p.buf[:0], p.buf[p.cursor:]...)
	p.cursor = 0
}

// ParseAll decodes every record in b, stopping at the first failure.
func ParseAll(b []byte) ([]Record, error) {
	parser := NewParser(b)

	var records []Record
	for {
		record, err := parser.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}
}

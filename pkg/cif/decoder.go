package cif

import (
	"errors"
	"fmt"
	"io"
)

const (
	chunkSize = 64 * 1024
	// maxEmptyReads matches bufio's limit on reads returning no data and no error.
	maxEmptyReads = 100
)

// Decoder reads records from an io.Reader, pulling more bytes whenever the
// underlying stream parser runs dry.
type Decoder struct {
	reader     io.Reader
	parser     *Parser
	chunk      []byte
	emptyReads int
}

func NewDecoder(reader io.Reader) *Decoder {
	return &Decoder{
		reader: reader,
		parser: NewStreamParser(),
		chunk:  make([]byte, chunkSize),
	}
}

// Next returns the next record, or io.EOF at a clean end of input.
func (d *Decoder) Next() (Record, error) {
	for {
		record, err := d.parser.Next()
		if err == nil || !errors.Is(err, ErrIncomplete) || d.parser.State() != StateSuspended {
			return record, err
		}

		if err := d.fill(); err != nil {
			return nil, err
		}
	}
}

func (d *Decoder) fill() error {
	n, err := d.reader.Read(d.chunk)
	if n > 0 {
		d.emptyReads = 0
		if feedErr := d.parser.Feed(d.chunk[:n]); feedErr != nil {
			return feedErr
		}
	} else if err == nil {
		d.emptyReads++
		if d.emptyReads >= maxEmptyReads {
			return fmt.Errorf("cif: reading input: %w", io.ErrNoProgress)
		}
	}

	if errors.Is(err, io.EOF) {
		d.parser.Close()
		return nil
	}
	if err != nil {
		return fmt.Errorf("cif: reading input: %w", err)
	}

	return nil
}

// Offset is the absolute offset of the next undecoded byte.
func (d *Decoder) Offset() int64 {
	return d.parser.Offset()
}

// Each calls fn for every record until the input is exhausted, fn returns an
// error, or decoding fails.
func (d *Decoder) Each(fn func(Record) error) error {
	for {
		record, err := d.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := fn(record); err != nil {
			return err
		}
	}
}

package sinks

import (
	"context"
	"io"

	"github.com/kr/pretty"
)

// PrettySink dumps records as Go values, for debugging.
type PrettySink struct {
	writer io.Writer
}

func NewPrettySink(writer io.Writer) *PrettySink {
	return &PrettySink{writer: writer}
}

func (s *PrettySink) Write(ctx context.Context, envelope Envelope) error {
	_, err := pretty.Fprintf(s.writer, "%s@%d %# v\n", envelope.Source, envelope.Offset, envelope.Record)
	return err
}

func (s *PrettySink) Close(ctx context.Context) error {
	return nil
}

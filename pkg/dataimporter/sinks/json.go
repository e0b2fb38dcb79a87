package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/liip/sheriff"
	"github.com/travigo/cifparser/pkg/cif"
)

type recordDocument struct {
	Source   string             `json:"source"`
	Offset   int64              `json:"offset"`
	Identity cif.RecordIdentity `json:"identity"`
	Record   interface{}        `json:"record"`
}

// Reduce strips a record down to the requested field groups.
func Reduce(record cif.Record, groups []string) (interface{}, error) {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, record)
	if err != nil {
		return nil, fmt.Errorf("sheriff could not reduce %s record: %w", record.Identity(), err)
	}

	return reduced, nil
}

func marshalEnvelope(envelope Envelope, groups []string) ([]byte, error) {
	reduced, err := Reduce(envelope.Record, groups)
	if err != nil {
		return nil, err
	}

	return json.Marshal(recordDocument{
		Source:   envelope.Source,
		Offset:   envelope.Offset,
		Identity: envelope.Identity,
		Record:   reduced,
	})
}

// JSONSink writes one JSON document per line.
type JSONSink struct {
	writer io.Writer
	groups []string
}

func NewJSONSink(writer io.Writer, groups []string) *JSONSink {
	return &JSONSink{writer: writer, groups: groups}
}

func (s *JSONSink) Write(ctx context.Context, envelope Envelope) error {
	document, err := marshalEnvelope(envelope, s.groups)
	if err != nil {
		return err
	}

	_, err = s.writer.Write(append(document, '\n'))
	return err
}

func (s *JSONSink) Close(ctx context.Context) error {
	return nil
}

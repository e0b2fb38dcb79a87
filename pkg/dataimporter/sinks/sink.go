package sinks

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/travigo/cifparser/pkg/cif"
)

// Envelope is a decoded record along with where it came from.
type Envelope struct {
	Source   string
	Offset   int64
	Identity cif.RecordIdentity
	Record   cif.Record
}

// Sink receives records in input order. Close flushes anything buffered.
type Sink interface {
	Write(ctx context.Context, envelope Envelope) error
	Close(ctx context.Context) error
}

type Options struct {
	Writer io.Writer
	// Groups selects which record field groups the json sink emits.
	Groups []string

	CSVPath   string
	QueueName string
	IndexName string
}

var Names = []string{"log", "pretty", "json", "mongo", "queue", "elastic", "csv"}

func New(name string, options Options) (Sink, error) {
	if options.Writer == nil {
		options.Writer = os.Stdout
	}
	if len(options.Groups) == 0 {
		options.Groups = []string{"basic", "detailed"}
	}

	switch name {
	case "log":
		return NewLogSink(), nil
	case "pretty":
		return NewPrettySink(options.Writer), nil
	case "json":
		return NewJSONSink(options.Writer, options.Groups), nil
	case "mongo":
		return NewMongoSink(), nil
	case "queue":
		return NewQueueSink(options.QueueName)
	case "elastic":
		return NewElasticSink(options.IndexName), nil
	case "csv":
		return NewCSVSink(options.Writer, options.CSVPath), nil
	default:
		return nil, fmt.Errorf("unknown output %s", name)
	}
}

// NewAll builds one sink per name, defaulting to the log sink.
func NewAll(names []string, options Options) ([]Sink, error) {
	if len(names) == 0 {
		names = []string{"log"}
	}

	var all []Sink
	for _, name := range names {
		sink, err := New(name, options)
		if err != nil {
			return nil, err
		}

		all = append(all, sink)
	}

	return all, nil
}

package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/dataimporter/filter"
	"github.com/travigo/cifparser/pkg/dataimporter/formats"
	cifformat "github.com/travigo/cifparser/pkg/dataimporter/formats/cif"
	"github.com/travigo/cifparser/pkg/dataimporter/sinks"
)

// Job decodes a set of sources into sinks.
type Job struct {
	Sources []string
	// Bundle applies to every source, empty detects it per source.
	Bundle         datasets.BundleFormat
	Authentication *datasets.SourceAuthentication

	// Parallel decodes up to this many inputs at once. Records from one
	// input always reach the sinks in order.
	Parallel int
	Filter   *filter.Filter
	Sinks    []sinks.Sink
}

type recordWriter struct {
	mutex  sync.Mutex
	sinks  []sinks.Sink
	filter *filter.Filter
	stats  *Statistics
}

// Run decodes every input of the job. The first failure stops the run and
// the sinks are closed either way.
func Run(ctx context.Context, job Job) (stats *Statistics, err error) {
	stats = newStatistics()

	defer func() {
		for _, sink := range job.Sinks {
			if closeErr := sink.Close(ctx); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}()

	var inputs []Input
	for _, source := range job.Sources {
		sourceInputs, cleanup, err := Inputs(ctx, source, job.Bundle, job.Authentication)
		defer cleanup()
		if err != nil {
			return stats, err
		}

		inputs = append(inputs, sourceInputs...)
	}

	writer := &recordWriter{
		sinks:  job.Sinks,
		filter: job.Filter,
		stats:  stats,
	}

	if job.Parallel <= 1 {
		for _, input := range inputs {
			if err := writer.decode(ctx, input); err != nil {
				return stats, err
			}
		}
	} else {
		decodePool := pool.New().
			WithContext(ctx).
			WithCancelOnError().
			WithFirstError().
			WithMaxGoroutines(job.Parallel)

		for _, input := range inputs {
			input := input
			decodePool.Go(func(ctx context.Context) error {
				return writer.decode(ctx, input)
			})
		}

		if err := decodePool.Wait(); err != nil {
			return stats, err
		}
	}

	stats.Log()

	return stats, nil
}

func (w *recordWriter) decode(ctx context.Context, input Input) error {
	reader, err := input.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", input.Name, err)
	}
	defer reader.Close()

	log.Info().Str("file", input.Name).Msg("Decoding input")

	decoder := cif.NewDecoder(reader)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *cif.ParseError
			if errors.As(err, &parseErr) {
				log.Error().Str("file", input.Name).EmbedObject(parseErr).Msg("Failed to decode record")
			}

			return fmt.Errorf("%s: %w", input.Name, err)
		}

		envelope := sinks.Envelope{
			Source:   input.Name,
			Offset:   decoder.Offset() - cif.LineLength,
			Identity: record.Identity(),
			Record:   record,
		}

		if err := w.write(ctx, envelope); err != nil {
			return err
		}
	}

	w.stats.input(decoder.Offset())

	log.Info().Str("file", input.Name).Int64("bytes", decoder.Offset()).Msg("Decoded input")

	return nil
}

func (w *recordWriter) write(ctx context.Context, envelope sinks.Envelope) error {
	match, err := w.filter.Match(envelope.Source, envelope.Record)
	if err != nil {
		return err
	}
	if !match {
		w.stats.filtered()
		return nil
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for _, sink := range w.sinks {
		if err := sink.Write(ctx, envelope); err != nil {
			return fmt.Errorf("writing %s record at %s:%d: %w", envelope.Identity, envelope.Source, envelope.Offset, err)
		}
	}

	w.stats.record(envelope.Identity)

	return nil
}

// ImportDataset runs a registered dataset into its configured outputs.
func ImportDataset(ctx context.Context, dataset datasets.DataSet) error {
	log.Info().
		Str("dataset", dataset.Identifier).
		Str("format", string(dataset.Format)).
		Str("provider", dataset.Provider.Name).
		Msg("Found dataset")

	switch dataset.Format {
	case datasets.DataSetFormatCIFRecords:
		recordFilter, err := filter.Compile(dataset.Filter)
		if err != nil {
			return err
		}

		outputs, err := sinks.NewAll(dataset.Outputs, sinks.Options{
			CSVPath:   dataset.CustomConfig["csv_path"],
			QueueName: dataset.CustomConfig["queue"],
			IndexName: dataset.CustomConfig["index"],
		})
		if err != nil {
			return err
		}

		_, err = Run(ctx, Job{
			Sources:        []string{dataset.Source},
			Bundle:         dataset.Bundle(),
			Authentication: &dataset.SourceAuthentication,
			Filter:         recordFilter,
			Sinks:          outputs,
		})

		return err
	case datasets.DataSetFormatCIF:
		inputs, cleanup, err := Inputs(ctx, dataset.Source, dataset.Bundle(), &dataset.SourceAuthentication)
		defer cleanup()
		if err != nil {
			return err
		}

		var format formats.Format = &cifformat.CommonInterfaceFormat{}
		for _, input := range inputs {
			if err := parseInput(format, input); err != nil {
				return err
			}
		}

		return format.Import(ctx, dataset)
	default:
		return fmt.Errorf("unrecognised format %s", dataset.Format)
	}
}

func parseInput(format formats.Format, input Input) error {
	reader, err := input.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", input.Name, err)
	}
	defer reader.Close()

	log.Info().Str("file", input.Name).Msg("Parsing CIF file")

	if err := format.ParseFile(reader); err != nil {
		return fmt.Errorf("%s: %w", input.Name, err)
	}

	return nil
}

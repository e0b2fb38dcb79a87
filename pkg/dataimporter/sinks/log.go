package sinks

import (
	"context"

	"github.com/rs/zerolog/log"
)

type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Write(ctx context.Context, envelope Envelope) error {
	log.Info().
		Str("file", envelope.Source).
		Int64("offset", envelope.Offset).
		Str("identity", string(envelope.Identity)).
		Interface("record", envelope.Record).
		Msg("Decoded record")

	return nil
}

func (s *LogSink) Close(ctx context.Context) error {
	return nil
}

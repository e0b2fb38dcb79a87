package sinks

import (
	"context"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/cifparser/pkg/redis_client"
)

const defaultQueueName = "cif-records-queue"

// QueueSink publishes every record as JSON onto a Redis queue.
type QueueSink struct {
	queue rmq.Queue
}

func NewQueueSink(name string) (*QueueSink, error) {
	if name == "" {
		name = defaultQueueName
	}
	if redis_client.QueueConnection == nil {
		return nil, errors.New("queue output needs a Redis connection")
	}

	queue, err := redis_client.QueueConnection.OpenQueue(name)
	if err != nil {
		return nil, err
	}

	return &QueueSink{queue: queue}, nil
}

func (s *QueueSink) Write(ctx context.Context, envelope Envelope) error {
	payload, err := marshalEnvelope(envelope, []string{"basic", "detailed"})
	if err != nil {
		return err
	}

	return s.queue.PublishBytes(payload)
}

func (s *QueueSink) Close(ctx context.Context) error {
	return nil
}

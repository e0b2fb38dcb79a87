package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// queuedRecord is the document the queue output publishes.
type queuedRecord struct {
	Source   string         `json:"source"`
	Offset   int64          `json:"offset"`
	Identity string         `json:"identity"`
	Record   map[string]any `json:"record"`
}

// RecordsBatchConsumer stores records published by the queue output into
// the records collection.
type RecordsBatchConsumer struct {
	collection *mongo.Collection
}

func NewRecordsBatchConsumer() *RecordsBatchConsumer {
	return &RecordsBatchConsumer{
		collection: database.GetCollection(database.RecordsCollection),
	}
}

func (consumer *RecordsBatchConsumer) Consume(batch rmq.Deliveries) {
	var operations []mongo.WriteModel
	var accepted rmq.Deliveries

	for _, delivery := range batch {
		document, err := decodeRecord([]byte(delivery.Payload()))
		if err != nil {
			log.Error().Err(err).Msg("Rejecting queued record")
			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject queued record")
			}
			continue
		}

		operations = append(operations, mongo.NewInsertOneModel().SetDocument(document))
		accepted = append(accepted, delivery)
	}

	if len(operations) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := consumer.collection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
		log.Error().Err(err).Int("records", len(operations)).Msg("Failed to bulk write queued records")
		if rejectErrors := accepted.Reject(); len(rejectErrors) > 0 {
			log.Error().Int("errors", len(rejectErrors)).Msg("Failed to reject queued records")
		}
		return
	}

	if ackErrors := accepted.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack queued record")
		}
	}

	log.Debug().Int("records", len(operations)).Msg("Stored queued records")
}

func decodeRecord(payload []byte) (bson.M, error) {
	var queued queuedRecord
	if err := json.Unmarshal(payload, &queued); err != nil {
		return nil, fmt.Errorf("decoding queued record: %w", err)
	}
	if queued.Identity == "" {
		return nil, fmt.Errorf("queued record from %s has no identity", queued.Source)
	}

	return bson.M{
		"source":           queued.Source,
		"offset":           queued.Offset,
		"identity":         queued.Identity,
		"record":           queued.Record,
		"creationdatetime": time.Now(),
	}, nil
}

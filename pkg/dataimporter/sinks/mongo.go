package sinks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxBatchSize = 200

// MongoSink bulk inserts records into the cif_records collection.
type MongoSink struct {
	collection *mongo.Collection
	operations []mongo.WriteModel
	inserted   uint64
}

func NewMongoSink() *MongoSink {
	return &MongoSink{
		collection: database.GetCollection(database.RecordsCollection),
	}
}

func (s *MongoSink) Write(ctx context.Context, envelope Envelope) error {
	document, err := bson.Marshal(bson.M{
		"source":           envelope.Source,
		"offset":           envelope.Offset,
		"identity":         envelope.Identity,
		"record":           envelope.Record,
		"creationdatetime": time.Now(),
	})
	if err != nil {
		return err
	}

	insertModel := mongo.NewInsertOneModel()
	insertModel.SetDocument(document)

	s.operations = append(s.operations, insertModel)

	if len(s.operations) >= maxBatchSize {
		return s.flush(ctx)
	}

	return nil
}

func (s *MongoSink) flush(ctx context.Context) error {
	if len(s.operations) == 0 {
		return nil
	}

	_, err := s.collection.BulkWrite(ctx, s.operations, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return err
	}

	s.inserted += uint64(len(s.operations))
	s.operations = nil

	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	if err := s.flush(ctx); err != nil {
		return err
	}

	log.Info().Uint64("inserts", s.inserted).Msg("Written records to MongoDB")

	return nil
}

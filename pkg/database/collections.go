package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RecordsCollection          = "cif_records"
	TrainDefinitionsCollection = "cif_train_definitions"
	LocationsCollection        = "cif_locations"
	AssociationsCollection     = "cif_associations"
)

func createIndexes() {
	createRecordsIndexes()
	createTrainDefinitionsIndexes()
	createLocationsIndexes()
	createAssociationsIndexes()
}

func createRecordsIndexes() {
	recordsCollection := GetCollection(RecordsCollection)
	_, err := recordsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "source", Value: 1},
				{Key: "offset", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "identity", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createTrainDefinitionsIndexes() {
	trainDefinitionsCollection := GetCollection(TrainDefinitionsCollection)
	trainUIDIndexName := "TrainUIDDateRunsFromSTP"
	_, err := trainDefinitionsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Options: &options.IndexOptions{
				Name: &trainUIDIndexName,
			},
			Keys: bson.D{
				{Key: "basicschedule.trainuid", Value: 1},
				{Key: "basicschedule.daterunsfrom", Value: 1},
				{Key: "basicschedule.stpindicator", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "datasource.datasetid", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createLocationsIndexes() {
	locationsCollection := GetCollection(LocationsCollection)
	_, err := locationsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tiploc", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "stanox", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "crscode", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createAssociationsIndexes() {
	associationsCollection := GetCollection(AssociationsCollection)
	_, err := associationsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "baseuid", Value: 1},
				{Key: "assocuid", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "datasource.datasetid", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

package cif

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	records "github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxBatchSize = 200

type DataSource struct {
	OriginalFormat string
	Provider       string
	DatasetID      string
	Timestamp      string
}

type trainDefinitionDocument struct {
	PrimaryIdentifier string
	Passenger         bool

	BasicSchedule             records.BasicSchedule
	BasicScheduleExtraDetails records.BasicScheduleExtraDetails
	OriginLocation            *records.OriginLocation
	IntermediateLocations     []records.IntermediateLocation
	ChangesEnRoute            []records.ChangesEnRoute
	TerminatingLocation       *records.TerminatingLocation

	Calls []Call

	DataSource           *DataSource
	CreationDateTime     time.Time
	ModificationDateTime time.Time
}

type locationDocument struct {
	records.TIPLOCInsert `bson:",inline"`

	DataSource           *DataSource
	ModificationDateTime time.Time
}

type associationDocument struct {
	records.AssociationDetails `bson:",inline"`

	DataSource *DataSource
}

func (c *CommonInterfaceFormat) Import(ctx context.Context, dataset datasets.DataSet) error {
	supported := dataset.SupportedObjects
	if !supported.TrainDefinitions && !supported.TIPLOCs && !supported.Associations {
		return errors.New("This format requires train definitions, tiplocs or associations to be enabled")
	}

	datasource := &DataSource{
		OriginalFormat: string(dataset.Format),
		Provider:       dataset.Provider.Name,
		DatasetID:      dataset.Identifier,
		Timestamp:      fmt.Sprintf("%d", time.Now().Unix()),
	}

	if supported.TIPLOCs {
		if err := c.importLocations(ctx, datasource); err != nil {
			return err
		}
	}
	if supported.Associations {
		if err := c.importAssociations(ctx, datasource); err != nil {
			return err
		}
	}
	if supported.TrainDefinitions {
		if err := c.importTrainDefinitions(ctx, dataset.IgnoreObjects.TrainDefinitions, datasource); err != nil {
			return err
		}
	}

	return nil
}

func (c *CommonInterfaceFormat) importTrainDefinitions(ctx context.Context, ignore datasets.IgnoreObjectTrainDefinition, datasource *DataSource) error {
	log.Info().Msg("Importing train definitions into Mongo")

	var operations []mongo.WriteModel
	var skipped int

	for _, trainDef := range c.TrainDefinitionSets {
		if ignored(ignore, trainDef) {
			skipped += 1
			continue
		}

		calls, err := trainDef.Calls()
		if err != nil {
			return fmt.Errorf("train definition %s: %w", trainDef.PrimaryIdentifier(), err)
		}

		now := time.Now()
		document := trainDefinitionDocument{
			PrimaryIdentifier:         trainDef.PrimaryIdentifier(),
			Passenger:                 IsValidPassengerJourney(trainDef.BasicSchedule.TrainCategory, trainDef.BasicScheduleExtraDetails.ATOCCode),
			BasicSchedule:             trainDef.BasicSchedule,
			BasicScheduleExtraDetails: trainDef.BasicScheduleExtraDetails,
			OriginLocation:            trainDef.OriginLocation,
			IntermediateLocations:     trainDef.IntermediateLocations,
			ChangesEnRoute:            trainDef.ChangesEnRoute,
			TerminatingLocation:       trainDef.TerminatingLocation,
			Calls:                     calls,
			DataSource:                datasource,
			CreationDateTime:          now,
			ModificationDateTime:      now,
		}

		operations = append(operations, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"primaryidentifier": document.PrimaryIdentifier}).
			SetReplacement(document).
			SetUpsert(true))
	}

	log.Info().Int("skipped", skipped).Msg(" - Ignored train definitions")

	return writeBatches(ctx, database.TrainDefinitionsCollection, operations)
}

func (c *CommonInterfaceFormat) importLocations(ctx context.Context, datasource *DataSource) error {
	log.Info().Msg("Importing TIPLOCs into Mongo")

	var operations []mongo.WriteModel

	for _, tiploc := range c.TIPLOCs {
		operations = append(operations, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"tiploc": tiploc.TIPLOC}).
			SetReplacement(locationDocument{
				TIPLOCInsert:         tiploc,
				DataSource:           datasource,
				ModificationDateTime: time.Now(),
			}).
			SetUpsert(true))
	}

	for _, amend := range c.TIPLOCAmends {
		update := locationDocument{
			TIPLOCInsert:         amend.TIPLOCInsert,
			DataSource:           datasource,
			ModificationDateTime: time.Now(),
		}
		if amend.NewTIPLOC != "" {
			update.TIPLOC = amend.NewTIPLOC
		}

		operations = append(operations, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"tiploc": amend.TIPLOC}).
			SetUpdate(bson.M{"$set": update}))
	}

	return writeBatches(ctx, database.LocationsCollection, operations)
}

func (c *CommonInterfaceFormat) importAssociations(ctx context.Context, datasource *DataSource) error {
	log.Info().Msg("Importing associations into Mongo")

	var operations []mongo.WriteModel

	for _, association := range c.Associations {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(associationDocument{
			AssociationDetails: association,
			DataSource:         datasource,
		}))
	}

	return writeBatches(ctx, database.AssociationsCollection, operations)
}

func writeBatches(ctx context.Context, collectionName string, operations []mongo.WriteModel) error {
	collection := database.GetCollection(collectionName)

	var upserted, modified, inserted int64

	numBatches := int(math.Ceil(float64(len(operations)) / float64(maxBatchSize)))

	for i := 0; i < numBatches; i++ {
		lower := maxBatchSize * i
		upper := maxBatchSize * (i + 1)

		if upper > len(operations) {
			upper = len(operations)
		}

		result, err := collection.BulkWrite(ctx, operations[lower:upper], options.BulkWrite().SetOrdered(false))
		if err != nil {
			return fmt.Errorf("bulk write %s: %w", collectionName, err)
		}

		upserted += result.UpsertedCount
		modified += result.ModifiedCount
		inserted += result.InsertedCount
	}

	log.Info().
		Str("collection", collectionName).
		Int64("inserted", inserted).
		Int64("upserted", upserted).
		Int64("modified", modified).
		Msg(" - Written to MongoDB")

	return nil
}

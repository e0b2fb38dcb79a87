package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/elastic_client"
	"go.mongodb.org/mongo-driver/bson"
)

const locationsIndexPrefix = "cif-locations-"

const locationsMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"TIPLOC": {
				"type": "keyword"
			},
			"STANOX": {
				"type": "keyword"
			},
			"CRSCode": {
				"type": "keyword"
			},
			"NationalLocationCode": {
				"type": "keyword"
			},
			"TPSDescription": {
				"type": "text",
				"fields": {
					"keyword": {
						"type": "keyword",
						"ignore_above": 256
					},
					"search_as_you_type": {
						"type": "search_as_you_type"
					}
				}
			},
			"NLCDescription": {
				"type": "text",
				"fields": {
					"search_as_you_type": {
						"type": "search_as_you_type"
					}
				}
			}
		}
	}
}`

type locationDocument struct {
	TIPLOC               cif.TIPLOC
	NationalLocationCode string
	TPSDescription       string
	STANOX               string
	CRSCode              string
	NLCDescription       string
}

func newLocationDocument(location cif.TIPLOCInsert) locationDocument {
	return locationDocument{
		TIPLOC:               location.TIPLOC,
		NationalLocationCode: location.NationalLocationCode,
		TPSDescription:       strings.TrimSpace(location.TPSDescription),
		STANOX:               location.STANOX,
		CRSCode:              location.CRSCode,
		NLCDescription:       strings.TrimSpace(location.NLCDescription),
	}
}

// IndexLocations rebuilds the locations search index from the TIPLOCs stored
// by a gb-cif import. The previous index is dropped once the new one is full.
func IndexLocations(ctx context.Context) error {
	indexName := fmt.Sprintf("%s%d", locationsIndexPrefix, time.Now().Unix())

	if err := createIndex(ctx, indexName, locationsMapping); err != nil {
		return err
	}

	count, err := indexLocationsFromMongo(ctx, indexName)
	if err != nil {
		return err
	}

	log.Info().Int("locations", count).Str("index", indexName).Msg("Sent all index requests to queue")

	if err := elastic_client.WaitUntilQueueEmpty(ctx); err != nil {
		return err
	}

	return deleteOldIndexes(ctx, locationsIndexPrefix+"*", indexName)
}

func createIndex(ctx context.Context, indexName string, mapping string) error {
	indexReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	resp, err := indexReq.Do(ctx, elastic_client.Client)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", indexName, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		responseBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("creating index %s: %s", indexName, responseBytes)
	}

	return nil
}

func indexLocationsFromMongo(ctx context.Context, indexName string) (int, error) {
	locationsCollection := database.GetCollection(database.LocationsCollection)

	cursor, err := locationsCollection.Find(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var location cif.TIPLOCInsert
		if err := cursor.Decode(&location); err != nil {
			return count, err
		}

		jsonLocation, err := json.Marshal(newLocationDocument(location))
		if err != nil {
			return count, err
		}

		elastic_client.IndexRequest(ctx, indexName, bytes.NewReader(jsonLocation))
		count += 1
	}

	return count, cursor.Err()
}

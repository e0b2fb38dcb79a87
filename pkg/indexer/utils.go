package indexer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/elastic_client"
)

type catIndex struct {
	Index string `json:"index"`
}

func deleteOldIndexes(ctx context.Context, indexWildcard string, indexName string) error {
	catReq := esapi.CatIndicesRequest{
		Index:  []string{indexWildcard},
		Format: "json",
	}

	resp, err := catReq.Do(ctx, elastic_client.Client)
	if err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}
	defer resp.Body.Close()

	var indexes []catIndex
	if err := json.NewDecoder(resp.Body).Decode(&indexes); err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}

	for _, index := range oldIndexes(indexes, indexName) {
		deleteReq := esapi.IndicesDeleteRequest{
			Index: []string{index},
		}

		deleteResp, err := deleteReq.Do(ctx, elastic_client.Client)
		if err != nil {
			return fmt.Errorf("deleting index %s: %w", index, err)
		}
		deleteResp.Body.Close()

		log.Info().Str("index", index).Msg("Delete old index")
	}

	return nil
}

func oldIndexes(indexes []catIndex, current string) []string {
	var old []string
	for _, index := range indexes {
		if index.Index != current {
			old = append(old, index.Index)
		}
	}

	return old
}

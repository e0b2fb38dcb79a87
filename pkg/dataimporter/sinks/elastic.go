package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/elastic_client"
)

type tiplocDocument struct {
	TIPLOC               cif.TIPLOC
	NewTIPLOC            cif.TIPLOC `json:",omitempty"`
	NationalLocationCode string
	TPSDescription       string
	STANOX               string
	CRSCode              string
	Source               string
	Timestamp            time.Time
}

// ElasticSink indexes TIPLOC inserts and amends so locations can be searched.
// Other record kinds are ignored.
type ElasticSink struct {
	indexName string
}

func NewElasticSink(indexName string) *ElasticSink {
	if indexName == "" {
		indexName = fmt.Sprintf("cif-tiplocs-%d", time.Now().Year())
	}

	return &ElasticSink{indexName: indexName}
}

func (s *ElasticSink) Write(ctx context.Context, envelope Envelope) error {
	var document tiplocDocument

	switch record := envelope.Record.(type) {
	case cif.TIPLOCInsert:
		document = newTIPLOCDocument(record)
	case cif.TIPLOCAmend:
		document = newTIPLOCDocument(record.TIPLOCInsert)
		document.NewTIPLOC = record.NewTIPLOC
	default:
		return nil
	}

	document.Source = envelope.Source
	document.Timestamp = time.Now()

	body, err := json.Marshal(document)
	if err != nil {
		return err
	}

	elastic_client.IndexRequest(ctx, s.indexName, bytes.NewReader(body))

	return nil
}

func newTIPLOCDocument(insert cif.TIPLOCInsert) tiplocDocument {
	return tiplocDocument{
		TIPLOC:               insert.TIPLOC,
		NationalLocationCode: insert.NationalLocationCode,
		TPSDescription:       insert.TPSDescription,
		STANOX:               insert.STANOX,
		CRSCode:              insert.CRSCode,
	}
}

func (s *ElasticSink) Close(ctx context.Context) error {
	return elastic_client.WaitUntilQueueEmpty(ctx)
}

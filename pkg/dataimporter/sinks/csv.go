package sinks

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/travigo/cifparser/pkg/cif"
)

type tiplocRow struct {
	TIPLOC               string `csv:"tiploc"`
	NationalLocationCode string `csv:"nlc"`
	NLCCheckCharacter    string `csv:"nlc_check"`
	Description          string `csv:"description"`
	STANOX               string `csv:"stanox"`
	CRSCode              string `csv:"crs"`
	NewTIPLOC            string `csv:"new_tiploc"`
}

// CSVSink collects TIPLOC inserts and amends and writes them as one CSV table
// on Close. Other record kinds are ignored.
type CSVSink struct {
	writer io.Writer
	path   string
	rows   []*tiplocRow
}

func NewCSVSink(writer io.Writer, path string) *CSVSink {
	return &CSVSink{writer: writer, path: path}
}

func (s *CSVSink) Write(ctx context.Context, envelope Envelope) error {
	switch record := envelope.Record.(type) {
	case cif.TIPLOCInsert:
		s.rows = append(s.rows, newTIPLOCRow(record))
	case cif.TIPLOCAmend:
		row := newTIPLOCRow(record.TIPLOCInsert)
		row.NewTIPLOC = string(record.NewTIPLOC)
		s.rows = append(s.rows, row)
	}

	return nil
}

func newTIPLOCRow(insert cif.TIPLOCInsert) *tiplocRow {
	return &tiplocRow{
		TIPLOC:               string(insert.TIPLOC),
		NationalLocationCode: insert.NationalLocationCode,
		NLCCheckCharacter:    insert.NLCCheckCharacter,
		Description:          strings.TrimSpace(insert.TPSDescription),
		STANOX:               insert.STANOX,
		CRSCode:              insert.CRSCode,
	}
}

func (s *CSVSink) Close(ctx context.Context) error {
	if s.path == "" {
		return gocsv.Marshal(s.rows, s.writer)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&s.rows, file); err != nil {
		return err
	}

	return file.Close()
}

package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travigo/cifparser/pkg/cif"
)

var (
	insert = cif.TIPLOCInsert{
		TIPLOC:               "BLTNODR",
		NationalLocationCode: "853600",
		NLCCheckCharacter:    "D",
		TPSDescription:       "BOLTON-UPON-DEARNE        ",
		STANOX:               "24011",
		CRSCode:              "BTD",
		NLCDescription:       "BOLTON ON DEARNE",
	}
	origin = cif.OriginLocation{
		Location:               "CHRX",
		ScheduledDepartureTime: cif.NewScheduleTime(0, 15, 30),
		PublicDepartureTime:    cif.NoTime,
		Platform:               "6  ",
		Line:                   "FL ",
		Activity:               "TB          ",
	}
)

func envelope(record cif.Record) Envelope {
	return Envelope{Source: "test.MCA", Offset: 81, Identity: record.Identity(), Record: record}
}

func TestJSONSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewJSONSink(&out, []string{"basic", "detailed"})

	require.NoError(t, sink.Write(context.Background(), envelope(origin)))
	require.NoError(t, sink.Close(context.Background()))

	var document map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &document))

	require.Equal(t, "test.MCA", document["source"])
	require.Equal(t, float64(81), document["offset"])
	require.Equal(t, "LO", document["identity"])

	record := document["record"].(map[string]interface{})
	require.Equal(t, "CHRX", record["Location"])
	require.Equal(t, "00:15:30", record["ScheduledDepartureTime"])
	require.Nil(t, record["PublicDepartureTime"])
	require.Equal(t, "FL ", record["Line"])
}

func TestJSONSinkGroups(t *testing.T) {
	var out bytes.Buffer
	sink := NewJSONSink(&out, []string{"basic"})

	require.NoError(t, sink.Write(context.Background(), envelope(origin)))

	var document struct {
		Record map[string]interface{} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &document))

	require.Contains(t, document.Record, "Platform")
	require.NotContains(t, document.Record, "Line")
}

func TestJSONSinkEmbeddedRecord(t *testing.T) {
	var out bytes.Buffer
	sink := NewJSONSink(&out, []string{"basic", "detailed"})

	amend := cif.TIPLOCAmend{TIPLOCInsert: insert, NewTIPLOC: "BLTNOD2"}
	require.NoError(t, sink.Write(context.Background(), envelope(amend)))

	require.Contains(t, out.String(), `"BLTNODR"`)
	require.Contains(t, out.String(), `"BLTNOD2"`)
}

func TestCSVSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewCSVSink(&out, "")

	ctx := context.Background()
	require.NoError(t, sink.Write(ctx, envelope(insert)))
	require.NoError(t, sink.Write(ctx, envelope(origin)))
	require.NoError(t, sink.Write(ctx, envelope(cif.TIPLOCAmend{TIPLOCInsert: insert, NewTIPLOC: "BLTNOD2"})))
	require.NoError(t, sink.Close(ctx))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "tiploc,nlc,nlc_check,description,stanox,crs,new_tiploc", lines[0])
	require.Equal(t, "BLTNODR,853600,D,BOLTON-UPON-DEARNE,24011,BTD,", lines[1])
	require.Equal(t, "BLTNODR,853600,D,BOLTON-UPON-DEARNE,24011,BTD,BLTNOD2", lines[2])
}

func TestCSVSinkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiplocs.csv")
	sink := NewCSVSink(nil, path)

	ctx := context.Background()
	require.NoError(t, sink.Write(ctx, envelope(insert)))
	require.NoError(t, sink.Close(ctx))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "BLTNODR,853600")
}

func TestPrettySink(t *testing.T) {
	var out bytes.Buffer
	sink := NewPrettySink(&out)

	require.NoError(t, sink.Write(context.Background(), envelope(origin)))
	require.Contains(t, out.String(), "test.MCA@81")
	require.Contains(t, out.String(), `Location:`)
	require.Contains(t, out.String(), `"CHRX"`)
}

func TestNewAll(t *testing.T) {
	all, err := NewAll(nil, Options{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.IsType(t, &LogSink{}, all[0])

	all, err = NewAll([]string{"json", "pretty", "csv"}, Options{Writer: &bytes.Buffer{}})
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = New("carrier-pigeon", Options{})
	require.Error(t, err)
}

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func cifBody(lines ...string) string {
	var body strings.Builder

	for _, line := range lines {
		body.WriteString(line + strings.Repeat(" ", 80-len(line)) + "\n")
	}

	return body.String()
}

const (
	sampleHeader   = "HDTPS.UDFROC1.PD1907050507191939DFROC2S       FA050719040720"
	sampleSchedule = "BSRG828851510191510231100100 POO2N75    113575825 DMUE   090      S            O"
	sampleOrigin   = "LOCHRX    0015 00156  FL     TB"
	sampleTrailer  = "ZZ"
)

func request(t *testing.T, method string, target string, body string) (int, []byte) {
	t.Helper()

	resp, err := NewApp().Test(httptest.NewRequest(method, target, strings.NewReader(body)), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, content
}

func TestVersion(t *testing.T) {
	status, body := request(t, http.MethodGet, "/core/version", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"version": "v0.1"}`, string(body))
}

func TestDecode(t *testing.T) {
	status, body := request(t, http.MethodPost, "/core/decode", cifBody(sampleHeader, sampleSchedule, sampleOrigin, sampleTrailer))
	require.Equal(t, http.StatusOK, status)

	var records []struct {
		Identity string
		Offset   int64
		Record   map[string]interface{}
	}
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 4)

	require.Equal(t, "BS", records[1].Identity)
	require.Equal(t, int64(81), records[1].Offset)
	require.Equal(t, "G82885", records[1].Record["TrainUID"])
	require.Equal(t, "DMU", records[1].Record["PowerType"])

	require.Equal(t, "LO", records[2].Identity)
	require.Equal(t, "00:15", records[2].Record["ScheduledDepartureTime"])
}

func TestDecodeGroupsAndFilter(t *testing.T) {
	status, body := request(t, http.MethodPost, `/core/decode?groups=basic&filter=Identity%20%3D%3D%20%22BS%22`, cifBody(sampleHeader, sampleSchedule, sampleTrailer))
	require.Equal(t, http.StatusOK, status)

	var records []struct {
		Identity string
		Record   map[string]interface{}
	}
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	require.Equal(t, "G82885", records[0].Record["TrainUID"])
	require.NotContains(t, records[0].Record, "PowerType")
}

func TestDecodeBadFilter(t *testing.T) {
	status, _ := request(t, http.MethodPost, `/core/decode?filter=Identity%20%3D%3D`, cifBody(sampleTrailer))
	require.Equal(t, http.StatusBadRequest, status)
}

func TestDecodeEmptyBody(t *testing.T) {
	status, body := request(t, http.MethodPost, "/core/decode", "")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))
}

func TestDecodeFailure(t *testing.T) {
	status, body := request(t, http.MethodPost, "/core/decode", cifBody(sampleHeader, "XX"))
	require.Equal(t, http.StatusUnprocessableEntity, status)

	var failure struct {
		Kind     string
		Offset   int64
		Identity string
		Reason   string
	}
	require.NoError(t, json.Unmarshal(body, &failure))
	require.Equal(t, "syntax", failure.Kind)
	require.Equal(t, int64(81), failure.Offset)
	require.Empty(t, failure.Identity)
	require.NotEmpty(t, failure.Reason)
}

func TestDecodeTruncated(t *testing.T) {
	status, body := request(t, http.MethodPost, "/core/decode", cifBody(sampleHeader)[:40])
	require.Equal(t, http.StatusUnprocessableEntity, status)

	var failure struct {
		Kind   string
		Needed int
	}
	require.NoError(t, json.Unmarshal(body, &failure))
	require.Equal(t, "incomplete", failure.Kind)
	require.Positive(t, failure.Needed)
}

func TestDatasets(t *testing.T) {
	t.Setenv("TRAVIGO_DATASOURCES_DIRECTORY", "../../data/datasources")

	status, body := request(t, http.MethodGet, "/core/datasets", "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "gb-nationalrail-timetable")

	status, _ = request(t, http.MethodGet, "/core/datasets/gb-nationalrail-timetable", "")
	require.Equal(t, http.StatusOK, status)

	status, _ = request(t, http.MethodGet, "/core/datasets/missing", "")
	require.Equal(t, http.StatusNotFound, status)
}

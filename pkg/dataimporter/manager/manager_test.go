package manager

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/dataimporter/filter"
	"github.com/travigo/cifparser/pkg/dataimporter/sinks"
)

func cifLines(lines ...string) []byte {
	var buf bytes.Buffer

	for _, line := range lines {
		buf.WriteString(line + strings.Repeat(" ", cif.RecordLength-len(line)) + "\n")
	}

	return buf.Bytes()
}

var sampleCIF = cifLines(
	"HDTPS.UDFROC1.PD1907050507191939DFROC2S       FA050719040720",
	"TIBLTNODR24853600DBOLTON-UPON-DEARNE        24011   0BTDBOLTON ON DEARNE",
	"BSRG828851510191510231100100 POO2N75    113575825 DMUE   090      S            O",
	"BX         SEY",
	"LOCHRX    0015 00156  FL     TB",
	"LTTUNWELL 0125 01271     TF",
	"ZZ",
)

type memorySink struct {
	mutex     sync.Mutex
	envelopes []sinks.Envelope
	closed    bool
}

func (m *memorySink) Write(_ context.Context, envelope sinks.Envelope) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.envelopes = append(m.envelopes, envelope)
	return nil
}

func (m *memorySink) Close(context.Context) error {
	m.closed = true
	return nil
}

func (m *memorySink) identities(source string) []cif.RecordIdentity {
	var identities []cif.RecordIdentity
	for _, envelope := range m.envelopes {
		if envelope.Source == source {
			identities = append(identities, envelope.Identity)
		}
	}

	return identities
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func writeZip(t *testing.T, entries map[string][]byte) string {
	t.Helper()

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := archive.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, archive.Close())

	return writeFile(t, "bundle.zip", buf.Bytes())
}

func readInput(t *testing.T, input Input) []byte {
	t.Helper()

	reader, err := input.Open()
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)

	return content
}

func TestDetectBundle(t *testing.T) {
	require.Equal(t, datasets.BundleFormatZIP, DetectBundle(".zip"))
	require.Equal(t, datasets.BundleFormatZIP, DetectBundle(".ZIP"))
	require.Equal(t, datasets.BundleFormatGZ, DetectBundle(".gz"))
	require.Equal(t, datasets.BundleFormatNone, DetectBundle(".MCA"))
	require.Equal(t, datasets.BundleFormatNone, DetectBundle(""))
}

func TestInputsPlainFile(t *testing.T) {
	path := writeFile(t, "timetable.cif", sampleCIF)

	inputs, cleanup, err := Inputs(context.Background(), path, "", nil)
	defer cleanup()
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	require.Equal(t, path, inputs[0].Name)
	require.Equal(t, sampleCIF, readInput(t, inputs[0]))
}

func TestInputsGzip(t *testing.T) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write(sampleCIF)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	path := writeFile(t, "timetable.cif.gz", buf.Bytes())

	inputs, cleanup, err := Inputs(context.Background(), path, "", nil)
	defer cleanup()
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	require.Equal(t, sampleCIF, readInput(t, inputs[0]))
}

func TestInputsZipKeepsTimetableEntries(t *testing.T) {
	path := writeZip(t, map[string][]byte{
		"RJTTF123.MCA": sampleCIF,
		"RJTTF123.MSN": []byte("A    FILE-SPEC=05 1.00 12/09/19 18.10.25   607"),
		"extra.cif":    sampleCIF,
	})

	inputs, cleanup, err := Inputs(context.Background(), path, "", nil)
	defer cleanup()
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	for _, input := range inputs {
		require.True(t, strings.HasPrefix(input.Name, path+":"))
		require.Equal(t, sampleCIF, readInput(t, input))
	}
}

func TestInputsZipWithoutTimetable(t *testing.T) {
	path := writeZip(t, map[string][]byte{"RJTTF123.MSN": []byte("A")})

	_, cleanup, err := Inputs(context.Background(), path, datasets.BundleFormatZIP, nil)
	defer cleanup()
	require.Error(t, err)
}

func TestInputsMissingFile(t *testing.T) {
	inputs, cleanup, err := Inputs(context.Background(), filepath.Join(t.TempDir(), "missing.cif"), "", nil)
	defer cleanup()
	require.NoError(t, err)

	_, err = inputs[0].Open()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun(t *testing.T) {
	path := writeFile(t, "timetable.cif", sampleCIF)
	sink := &memorySink{}

	stats, err := Run(context.Background(), Job{
		Sources: []string{path},
		Sinks:   []sinks.Sink{sink},
	})
	require.NoError(t, err)
	require.True(t, sink.closed)

	require.Equal(t, []cif.RecordIdentity{"HD", "TI", "BS", "BX", "LO", "LT", "ZZ"}, sink.identities(path))
	require.Equal(t, int64(0), sink.envelopes[0].Offset)
	require.Equal(t, int64(cif.LineLength*2), sink.envelopes[2].Offset)

	require.Equal(t, 7, stats.Total())
	require.Equal(t, 1, stats.Inputs)
	require.Equal(t, int64(len(sampleCIF)), stats.Bytes)
	require.Equal(t, 1, stats.Records[cif.RecordIdentityBasicSchedule])
}

func TestRunFilter(t *testing.T) {
	path := writeFile(t, "timetable.cif", sampleCIF)
	sink := &memorySink{}

	recordFilter, err := filter.Compile(`Identity in ["LO", "LT"]`)
	require.NoError(t, err)

	stats, err := Run(context.Background(), Job{
		Sources: []string{path},
		Filter:  recordFilter,
		Sinks:   []sinks.Sink{sink},
	})
	require.NoError(t, err)
	require.Equal(t, []cif.RecordIdentity{"LO", "LT"}, sink.identities(path))
	require.Equal(t, 5, stats.Filtered)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	broken := append(cifLines("HDTPS.UDFROC1.PD1907050507191939DFROC2S       FA050719040720"), cifLines("XX")...)

	first := writeFile(t, "first.cif", broken)
	second := writeFile(t, "second.cif", sampleCIF)
	sink := &memorySink{}

	_, err := Run(context.Background(), Job{
		Sources: []string{first, second},
		Sinks:   []sinks.Sink{sink},
	})
	require.ErrorIs(t, err, cif.ErrSyntax)
	require.True(t, sink.closed)

	var parseErr *cif.ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, int64(cif.LineLength), parseErr.Offset)

	require.Len(t, sink.identities(first), 1)
	require.Empty(t, sink.identities(second))
}

func TestRunParallel(t *testing.T) {
	var sources []string
	for _, name := range []string{"a.cif", "b.cif", "c.cif", "d.cif"} {
		sources = append(sources, writeFile(t, name, sampleCIF))
	}

	sink := &memorySink{}

	stats, err := Run(context.Background(), Job{
		Sources:  sources,
		Parallel: 3,
		Sinks:    []sinks.Sink{sink},
	})
	require.NoError(t, err)
	require.Equal(t, 4, stats.Inputs)
	require.Equal(t, 28, stats.Total())

	for _, source := range sources {
		require.Equal(t, []cif.RecordIdentity{"HD", "TI", "BS", "BX", "LO", "LT", "ZZ"}, sink.identities(source))
	}
}

func TestRunParallelFailure(t *testing.T) {
	sources := []string{
		writeFile(t, "good.cif", sampleCIF),
		writeFile(t, "truncated.cif", sampleCIF[:len(sampleCIF)-20]),
	}

	_, err := Run(context.Background(), Job{
		Sources:  sources,
		Parallel: 2,
		Sinks:    []sinks.Sink{&memorySink{}},
	})
	require.ErrorIs(t, err, cif.ErrIncomplete)
}

func TestRunDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" || r.URL.Query().Get("token") != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Disposition", `attachment; filename="timetable.MCA"`)
		w.Write(sampleCIF)
	}))
	defer server.Close()

	sink := &memorySink{}
	auth := &datasets.SourceAuthentication{
		Query:  map[string]string{"token": "abc"},
		Header: map[string]string{"X-Api-Key": "secret"},
	}

	stats, err := Run(context.Background(), Job{
		Sources:        []string{server.URL + "/feed"},
		Authentication: auth,
		Sinks:          []sinks.Sink{sink},
	})
	require.NoError(t, err)
	require.Equal(t, 7, stats.Total())

	_, err = Run(context.Background(), Job{
		Sources: []string{server.URL + "/feed"},
		Sinks:   []sinks.Sink{&memorySink{}},
	})
	require.Error(t, err)
}

func TestNewDownloadRequest(t *testing.T) {
	auth := &datasets.SourceAuthentication{}
	auth.Basic.Username = "user"
	auth.Basic.Password = "pass"

	req, err := newDownloadRequest(context.Background(), "https://example.com/feed?existing=1", auth)
	require.NoError(t, err)

	username, password, ok := req.BasicAuth()
	require.True(t, ok)
	require.Equal(t, "user", username)
	require.Equal(t, "pass", password)
	require.Equal(t, "1", req.URL.Query().Get("existing"))

	_, err = newDownloadRequest(context.Background(), "https://example.com/feed", &datasets.SourceAuthentication{Custom: "unknown"})
	require.Error(t, err)
}

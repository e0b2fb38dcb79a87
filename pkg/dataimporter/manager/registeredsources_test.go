package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
)

func TestLoadDataSets(t *testing.T) {
	loaded, err := LoadDataSets("testdata/datasources")
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	full := loaded[0]
	require.Equal(t, "test-rail-full", full.Identifier)
	require.Equal(t, "test-rail", full.DataSourceRef)
	require.Equal(t, "Test Rail", full.Provider.Name)
	require.Equal(t, datasets.DataSetFormatCIF, full.Format)
	require.Equal(t, datasets.BundleFormatNone, full.Bundle())
	require.True(t, full.SupportedObjects.TrainDefinitions)

	records := loaded[1]
	require.Equal(t, "test-rail-records", records.Identifier)
	require.Equal(t, datasets.BundleFormatZIP, records.Bundle())
	require.Equal(t, []string{"json", "csv"}, records.Outputs)
	require.Equal(t, `Identity == "BS"`, records.Filter)

	secure := loaded[2]
	require.Equal(t, "test-secure-timetable", secure.Identifier)
	require.Equal(t, "secret", secure.SourceAuthentication.Header["X-Api-Key"])
	require.Equal(t, time.Hour, secure.RefreshInterval)
}

func TestDataSetKeepsOwnAuthentication(t *testing.T) {
	loaded, err := decodeDataSources([]byte(`
identifier: test-auth
provider:
  name: Auth Rail
sourceauthentication:
  header:
    X-Api-Key: shared
datasets:
  - identifier: own
    format: gb-cif-records
    source: https://example.com/own.cif
    sourceauthentication:
      query:
        key: private
  - identifier: inherited
    format: gb-cif-records
    source: https://example.com/inherited.cif
`))
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	own := loaded[0].SourceAuthentication
	require.Equal(t, "private", own.Query["key"])
	require.Empty(t, own.Header)

	inherited := loaded[1].SourceAuthentication
	require.Equal(t, "shared", inherited.Header["X-Api-Key"])
	require.Empty(t, inherited.Query)
}

func TestLoadDataSetsInvalid(t *testing.T) {
	_, err := LoadDataSets("testdata/invalid")
	require.Error(t, err)
}

func TestGetDataset(t *testing.T) {
	t.Setenv("TRAVIGO_DATASOURCES_DIRECTORY", "testdata/datasources")

	dataset, err := GetDataset("test-secure-timetable")
	require.NoError(t, err)
	require.Equal(t, datasets.BundleFormatGZ, dataset.UnpackBundle)

	_, err = GetDataset("missing")
	require.Error(t, err)
}

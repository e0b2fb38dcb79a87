package manager

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/util"
	"gopkg.in/yaml.v3"
)

const defaultDataSourcesDirectory = "data/datasources/"

func dataSourcesDirectory() string {
	return util.GetEnvironmentVariable("TRAVIGO_DATASOURCES_DIRECTORY", defaultDataSourcesDirectory)
}

func GetRegisteredDataSets() ([]datasets.DataSet, error) {
	return LoadDataSets(dataSourcesDirectory())
}

// LoadDataSets reads every yaml file under directory. A file may hold several
// data source documents.
func LoadDataSets(directory string) ([]datasets.DataSet, error) {
	var registeredDatasets []datasets.DataSet

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading datasource file")

			datasourceYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			loaded, err := decodeDataSources(datasourceYaml)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			registeredDatasets = append(registeredDatasets, loaded...)

			return nil
		})
	if err != nil {
		return nil, err
	}

	return registeredDatasets, nil
}

func decodeDataSources(document []byte) ([]datasets.DataSet, error) {
	var loaded []datasets.DataSet

	decoder := yaml.NewDecoder(bytes.NewReader(document))

	for {
		var datasource datasets.DataSource
		err := decoder.Decode(&datasource)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if err := datasource.Validate(); err != nil {
			return nil, err
		}

		for _, dataset := range datasource.Datasets {
			dataset.Identifier = fmt.Sprintf("%s-%s", datasource.Identifier, dataset.Identifier)
			dataset.DataSourceRef = datasource.Identifier
			dataset.Provider = datasource.Provider

			if datasource.SourceAuthentication != nil && !dataset.SourceAuthentication.Configured() {
				dataset.SourceAuthentication = *datasource.SourceAuthentication
			}

			if err := dataset.Validate(); err != nil {
				return nil, err
			}

			loaded = append(loaded, dataset)
		}
	}

	return loaded, nil
}

func GetDataset(identifier string) (datasets.DataSet, error) {
	registered, err := GetRegisteredDataSets()
	if err != nil {
		return datasets.DataSet{}, err
	}

	for _, dataset := range registered {
		if dataset.Identifier == identifier {
			return dataset, nil
		}
	}

	return datasets.DataSet{}, fmt.Errorf("dataset %s could not be found", identifier)
}

package datasets

import "time"

type DataSet struct {
	Identifier    string        `validate:"required"`
	DataSourceRef string        `yaml:"-" json:"-"`
	Format        DataSetFormat `validate:"required,oneof=gb-cif gb-cif-records"`

	Provider Provider `yaml:"-"`

	Source               string               `validate:"required"`
	SourceAuthentication SourceAuthentication `json:"-"`

	UnpackBundle     BundleFormat `validate:"omitempty,oneof=none zip gz"`
	SupportedObjects SupportedObjects
	IgnoreObjects    IgnoreObjects

	// Outputs names the sinks records are written to, in order.
	Outputs []string `validate:"dive,oneof=log pretty json mongo queue elastic csv"`
	Filter  string

	RefreshInterval time.Duration

	CustomConfig map[string]string
}

type SourceAuthentication struct {
	Query  map[string]string
	Header map[string]string
	Basic  struct {
		Username string
		Password string
	}
	Custom string `validate:"omitempty,oneof=gb-nationalrail-login"`
}

// Configured reports whether any kind of authentication is set.
func (a *SourceAuthentication) Configured() bool {
	return len(a.Query) > 0 || len(a.Header) > 0 || a.Basic.Username != "" || a.Custom != ""
}

type DataSetFormat string

const (
	// DataSetFormatCIF groups schedules into train definition sets and stores them.
	DataSetFormatCIF DataSetFormat = "gb-cif"
	// DataSetFormatCIFRecords streams every decoded record into the dataset outputs.
	DataSetFormatCIFRecords DataSetFormat = "gb-cif-records"
)

type Provider struct {
	Name    string `validate:"required"`
	Website string `validate:"omitempty,url"`
}

type BundleFormat string

const (
	BundleFormatNone BundleFormat = "none"
	BundleFormatZIP  BundleFormat = "zip"
	BundleFormatGZ   BundleFormat = "gz"
)

type IgnoreObjects struct {
	TrainDefinitions IgnoreObjectTrainDefinition
}

type IgnoreObjectTrainDefinition struct {
	ByOperator []string
	ByCategory []string
}

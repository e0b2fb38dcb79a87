package datasets

type DataSource struct {
	Identifier string `validate:"required"`
	Region     string
	Provider   Provider  `validate:"required"`
	Datasets   []DataSet `validate:"required,min=1"`

	SourceAuthentication *SourceAuthentication
}

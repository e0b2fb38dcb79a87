package datasets

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks a data source and every dataset it declares.
func (d *DataSource) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("datasource %s: %w", d.Identifier, err)
	}

	return nil
}

func (d *DataSet) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("dataset %s: %w", d.Identifier, err)
	}

	return nil
}

// Bundle returns the bundle format, treating an unset value as none.
func (d *DataSet) Bundle() BundleFormat {
	if d.UnpackBundle == "" {
		return BundleFormatNone
	}

	return d.UnpackBundle
}

package formats

import (
	"context"
	"io"

	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
)

type Format interface {
	ParseFile(io.Reader) error
	Import(context.Context, datasets.DataSet) error
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"github.com/travigo/cifparser/pkg/dataimporter/manager"
)

type datasetResponse struct {
	Identifier       string
	DataSourceRef    string
	Format           datasets.DataSetFormat
	Provider         datasets.Provider
	UnpackBundle     datasets.BundleFormat
	SupportedObjects datasets.SupportedObjects
	Outputs          []string
	Filter           string
	RefreshInterval  string
}

func newDatasetResponse(dataset datasets.DataSet) datasetResponse {
	return datasetResponse{
		Identifier:       dataset.Identifier,
		DataSourceRef:    dataset.DataSourceRef,
		Format:           dataset.Format,
		Provider:         dataset.Provider,
		UnpackBundle:     dataset.Bundle(),
		SupportedObjects: dataset.SupportedObjects,
		Outputs:          dataset.Outputs,
		Filter:           dataset.Filter,
		RefreshInterval:  dataset.RefreshInterval.String(),
	}
}

func DatasetsRouter(router fiber.Router) {
	router.Get("/", listDatasets)
	router.Get("/:identifier", getDataset)
}

func listDatasets(c *fiber.Ctx) error {
	registered, err := manager.GetRegisteredDataSets()
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := []datasetResponse{}
	for _, dataset := range registered {
		response = append(response, newDatasetResponse(dataset))
	}

	return c.JSON(response)
}

func getDataset(c *fiber.Ctx) error {
	dataset, err := manager.GetDataset(c.Params("identifier"))
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(newDatasetResponse(dataset))
}

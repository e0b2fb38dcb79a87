package routes

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/cifparser/pkg/cif"
	"github.com/travigo/cifparser/pkg/dataimporter/filter"
	"github.com/travigo/cifparser/pkg/dataimporter/sinks"
)

type decodedRecord struct {
	Identity cif.RecordIdentity `json:"identity"`
	Offset   int64              `json:"offset"`
	Record   interface{}        `json:"record"`
}

func DecodeRouter(router fiber.Router) {
	router.Post("/", decodeRecords)
}

// decodeRecords decodes the request body as a complete CIF file. Nothing is
// returned for a body that fails part way through.
func decodeRecords(c *fiber.Ctx) error {
	groups := []string{"basic", "detailed"}
	if c.Query("groups") != "" {
		groups = strings.Split(c.Query("groups"), ",")
	}

	recordFilter, err := filter.Compile(c.Query("filter"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records, err := cif.ParseAll(c.Body())
	if err != nil {
		return sendParseError(c, err)
	}

	response := []decodedRecord{}
	for i, record := range records {
		match, err := recordFilter.Match("request", record)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if !match {
			continue
		}

		reduced, err := sinks.Reduce(record, groups)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sheriff could not reduce record",
			})
		}

		response = append(response, decodedRecord{
			Identity: record.Identity(),
			Offset:   int64(i) * cif.LineLength,
			Record:   reduced,
		})
	}

	return c.JSON(response)
}

func sendParseError(c *fiber.Ctx, err error) error {
	var parseErr *cif.ParseError
	if !errors.As(err, &parseErr) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.SendStatus(fiber.StatusUnprocessableEntity)
	return c.JSON(fiber.Map{
		"error":    err.Error(),
		"kind":     parseErr.Kind.String(),
		"offset":   parseErr.Offset,
		"identity": parseErr.Identity,
		"field":    parseErr.Field,
		"reason":   parseErr.Reason,
		"needed":   parseErr.Needed,
		"snippet":  parseErr.Snippet,
	})
}

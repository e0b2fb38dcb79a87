package cif

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	records "github.com/travigo/cifparser/pkg/cif"
)

var ErrOutsideSchedule = errors.New("schedule record outside of a schedule")

// CommonInterfaceFormat groups a decoded CIF file into the objects a
// timetable is made of. Records are kept in input order.
type CommonInterfaceFormat struct {
	Header *records.Header

	TIPLOCs      []records.TIPLOCInsert
	TIPLOCAmends []records.TIPLOCAmend

	Associations        []records.AssociationDetails
	TrainDefinitionSets []*TrainDefinitionSet

	current *TrainDefinitionSet
}

func (c *CommonInterfaceFormat) ParseFile(reader io.Reader) error {
	decoder := records.NewDecoder(reader)

	err := decoder.Each(c.Add)
	if err != nil {
		var parseErr *records.ParseError
		if errors.As(err, &parseErr) {
			log.Error().EmbedObject(parseErr).Msg("Failed to decode CIF file")
		}
		return err
	}

	c.Finish()

	log.Info().
		Int("tiplocs", len(c.TIPLOCs)).
		Int("amends", len(c.TIPLOCAmends)).
		Int("associations", len(c.Associations)).
		Int("schedules", len(c.TrainDefinitionSets)).
		Int64("bytes", decoder.Offset()).
		Msg("Parsed CIF file")

	return nil
}

// Add places a single record into its group. Location and extra detail
// records must follow the basic schedule they belong to.
func (c *CommonInterfaceFormat) Add(record records.Record) error {
	switch record := record.(type) {
	case records.Header:
		if c.Header != nil {
			log.Warn().Str("current", record.CurrentFileRef).Msg("Multiple header records, keeping the first")
			return nil
		}
		c.Header = &record
	case records.TIPLOCInsert:
		c.TIPLOCs = append(c.TIPLOCs, record)
	case records.TIPLOCAmend:
		c.TIPLOCAmends = append(c.TIPLOCAmends, record)
	case records.Association:
		details, err := record.Details()
		if err != nil {
			log.Error().Err(err).Str("payload", record.Payload).Msg("Skipping malformed association")
			return nil
		}
		c.Associations = append(c.Associations, details)
	case records.BasicSchedule:
		if c.current != nil {
			c.closeSchedule()
		}
		c.current = &TrainDefinitionSet{BasicSchedule: record}
	case records.BasicScheduleExtraDetails:
		if c.current == nil {
			return outsideSchedule(record)
		}
		c.current.BasicScheduleExtraDetails = record
	case records.OriginLocation:
		if c.current == nil {
			return outsideSchedule(record)
		}
		c.current.OriginLocation = &record
	case records.IntermediateLocation:
		if c.current == nil {
			return outsideSchedule(record)
		}
		c.current.IntermediateLocations = append(c.current.IntermediateLocations, record)
	case records.ChangesEnRoute:
		if c.current == nil {
			return outsideSchedule(record)
		}
		c.current.ChangesEnRoute = append(c.current.ChangesEnRoute, record)
	case records.TerminatingLocation:
		if c.current == nil {
			return outsideSchedule(record)
		}
		c.current.TerminatingLocation = &record
		c.closeSchedule()
	case records.Trailer:
		c.Finish()
	}

	return nil
}

// Finish closes a schedule left open at the end of the input. Cancellations
// and deletes carry no location records so this is expected.
func (c *CommonInterfaceFormat) Finish() {
	if c.current != nil {
		c.closeSchedule()
	}
}

func (c *CommonInterfaceFormat) closeSchedule() {
	c.TrainDefinitionSets = append(c.TrainDefinitionSets, c.current)
	c.current = nil
}

func outsideSchedule(record records.Record) error {
	return fmt.Errorf("%w: %s", ErrOutsideSchedule, record.Identity())
}

package cif

import (
	"fmt"
	"strings"
	"time"

	records "github.com/travigo/cifparser/pkg/cif"
)

const dateFormat = "060102"

type TrainDefinitionSet struct {
	BasicSchedule             records.BasicSchedule
	BasicScheduleExtraDetails records.BasicScheduleExtraDetails

	OriginLocation        *records.OriginLocation
	IntermediateLocations []records.IntermediateLocation
	ChangesEnRoute        []records.ChangesEnRoute
	TerminatingLocation   *records.TerminatingLocation
}

func (t *TrainDefinitionSet) PrimaryIdentifier() string {
	return fmt.Sprintf("gb-rail-%s:%s:%s", t.BasicSchedule.TrainUID, t.BasicSchedule.DateRunsFrom, t.BasicSchedule.STPIndicator)
}

// Complete reports whether the set runs from an origin to a terminating location.
func (t *TrainDefinitionSet) Complete() bool {
	return t.OriginLocation != nil && t.TerminatingLocation != nil
}

// RunsOn checks the date range and days run mask of the schedule. A schedule
// without an end date runs on its start date only.
func (t *TrainDefinitionSet) RunsOn(date time.Time) (bool, error) {
	from, err := time.ParseInLocation(dateFormat, t.BasicSchedule.DateRunsFrom, date.Location())
	if err != nil {
		return false, fmt.Errorf("date runs from: %w", err)
	}

	to := from
	if t.BasicSchedule.DateRunsTo != "" {
		to, err = time.ParseInLocation(dateFormat, t.BasicSchedule.DateRunsTo, date.Location())
		if err != nil {
			return false, fmt.Errorf("date runs to: %w", err)
		}
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if day.Before(from) || day.After(to) {
		return false, nil
	}

	// Days run starts on Monday
	index := (int(day.Weekday()) + 6) % 7
	if index >= len(t.BasicSchedule.DaysRun) {
		return false, nil
	}

	return t.BasicSchedule.DaysRun[index] == '1', nil
}

type Call struct {
	Location records.TIPLOC
	Suffix   string

	ScheduledArrivalTime   records.ScheduleTime
	ScheduledDepartureTime records.ScheduleTime
	PublicArrivalTime      records.ScheduleTime
	PublicDepartureTime    records.ScheduleTime

	Platform   string
	Activities []string
}

// Calls lists the locations where the train stops for passengers, from the
// origin through to the terminating location.
func (t *TrainDefinitionSet) Calls() ([]Call, error) {
	if !t.Complete() {
		return nil, nil
	}

	origin := t.OriginLocation
	calls := []Call{
		{
			Location:               origin.Location,
			Suffix:                 origin.LocationSuffix,
			ScheduledArrivalTime:   records.NoTime,
			ScheduledDepartureTime: origin.ScheduledDepartureTime,
			PublicArrivalTime:      records.NoTime,
			PublicDepartureTime:    origin.PublicDepartureTime,
			Platform:               strings.TrimSpace(origin.Platform),
			Activities:             activities(origin.Activity),
		},
	}

	for _, location := range t.IntermediateLocations {
		// Passes and operational stops carry blank or zeroed public times
		if !publicTime(location.PublicArrivalTime) && !publicTime(location.PublicDepartureTime) {
			continue
		}

		calls = append(calls, Call{
			Location:               location.Location,
			Suffix:                 location.LocationSuffix,
			ScheduledArrivalTime:   location.ScheduledArrivalTime,
			ScheduledDepartureTime: location.ScheduledDepartureTime,
			PublicArrivalTime:      location.PublicArrivalTime,
			PublicDepartureTime:    location.PublicDepartureTime,
			Platform:               strings.TrimSpace(location.Platform),
			Activities:             activities(location.Activity),
		})
	}

	terminating := t.TerminatingLocation
	scheduledArrival, err := records.ParseScheduleTime(terminating.ScheduledArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("terminating scheduled arrival: %w", err)
	}
	publicArrival, err := records.ParseScheduleTime(terminating.PublicArrivalTime)
	if err != nil {
		return nil, fmt.Errorf("terminating public arrival: %w", err)
	}

	calls = append(calls, Call{
		Location:               terminating.Location,
		Suffix:                 terminating.LocationSuffix,
		ScheduledArrivalTime:   scheduledArrival,
		ScheduledDepartureTime: records.NoTime,
		PublicArrivalTime:      publicArrival,
		PublicDepartureTime:    records.NoTime,
		Platform:               strings.TrimSpace(terminating.Platform),
		Activities:             activities(terminating.Activity),
	})

	return calls, nil
}

func publicTime(t records.ScheduleTime) bool {
	return t.Valid() && t != 0
}

// activities splits the activity column into its two character codes.
func activities(column string) []string {
	codes := []string{}

	for i := 0; i+2 <= len(column); i += 2 {
		code := strings.TrimSpace(column[i : i+2])
		if code != "" {
			codes = append(codes, code)
		}
	}

	return codes
}

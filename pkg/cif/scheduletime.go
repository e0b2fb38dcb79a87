package cif

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/travigo/cifparser/pkg/util"
)

// ScheduleTime is a time of day in seconds past midnight. Blank schedule
// columns decode to NoTime rather than midnight.
type ScheduleTime int32

const NoTime ScheduleTime = -1

const halfMinuteMarker = 'H'

func NewScheduleTime(hour int, minute int, second int) ScheduleTime {
	return ScheduleTime(hour*3600 + minute*60 + second)
}

func (t ScheduleTime) Valid() bool {
	return t >= 0
}

func (t ScheduleTime) Hour() int {
	return int(t) / 3600
}

func (t ScheduleTime) Minute() int {
	return int(t) % 3600 / 60
}

func (t ScheduleTime) Second() int {
	return int(t) % 60
}

func (t ScheduleTime) String() string {
	if !t.Valid() {
		return ""
	}
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}

	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On anchors the time onto the calendar day of date. The zero time is returned for NoTime.
func (t ScheduleTime) On(date time.Time) time.Time {
	if !t.Valid() {
		return time.Time{}
	}

	return util.AddSecondsToDate(date, int(t))
}

func (t ScheduleTime) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}

	return json.Marshal(t.String())
}

// timeHalf reads HHMM followed by the half-minute marker column.
func (r *fieldReader) timeHalf(name string) (ScheduleTime, error) {
	start := r.pos

	span, err := r.take(name, 5)
	if err != nil {
		return NoTime, err
	}

	marker := span[4]
	if marker != ' ' && marker != halfMinuteMarker {
		r.pos = start
		return NoTime, r.fail(ErrorKindSyntax, start+4, name, fmt.Sprintf("unexpected half minute marker %q", marker))
	}

	value, err := r.clock(name, start, span[:4])
	if err != nil {
		return NoTime, err
	}

	if !value.Valid() {
		if marker == halfMinuteMarker {
			r.pos = start
			return NoTime, r.fail(ErrorKindSyntax, start, name, "half minute marker without a time")
		}
		return NoTime, nil
	}
	if marker == halfMinuteMarker {
		value += 30
	}

	return value, nil
}

// time reads a bare HHMM column.
func (r *fieldReader) time(name string) (ScheduleTime, error) {
	start := r.pos

	span, err := r.take(name, 4)
	if err != nil {
		return NoTime, err
	}

	return r.clock(name, start, span)
}

func (r *fieldReader) clock(name string, start int, digits []byte) (ScheduleTime, error) {
	if util.IsBlank(digits) {
		return NoTime, nil
	}

	for _, c := range digits {
		if c < '0' || c > '9' {
			r.pos = start
			return NoTime, r.fail(ErrorKindSyntax, start, name, fmt.Sprintf("malformed time %q", digits))
		}
	}

	hour := int(digits[0]-'0')*10 + int(digits[1]-'0')
	minute := int(digits[2]-'0')*10 + int(digits[3]-'0')
	if hour > 23 || minute > 59 {
		r.pos = start
		return NoTime, r.fail(ErrorKindSyntax, start, name, fmt.Sprintf("time %q out of range", digits))
	}

	return NewScheduleTime(hour, minute, 0), nil
}

// ParseScheduleTime parses a column kept raw by a grammar: HHMM, optionally
// followed by the half minute marker.
func ParseScheduleTime(value string) (ScheduleTime, error) {
	r := newFieldReader([]byte(value), 0, "")

	switch len(value) {
	case 4:
		return r.time("time")
	case 5:
		return r.timeHalf("time")
	default:
		return NoTime, fmt.Errorf("cif: schedule time %q must be 4 or 5 bytes", value)
	}
}

package cif

import "strings"

// TIPLOC is the 7 character Timing Point Location code every location record keys on.
type TIPLOC string

func (t TIPLOC) String() string {
	return string(t)
}

// WithSuffix joins the location with its occurrence suffix, as used when a
// train calls at the same TIPLOC more than once.
func (t TIPLOC) WithSuffix(suffix string) string {
	return strings.TrimSpace(string(t) + suffix)
}

func (r *fieldReader) tiploc(name string) (TIPLOC, error) {
	value, err := r.mandatory(name, 7)
	if err != nil {
		return "", err
	}

	return TIPLOC(value), nil
}

func (r *fieldReader) optionalTIPLOC(name string) (TIPLOC, error) {
	value, err := r.optional(name, 7)
	if err != nil {
		return "", err
	}

	return TIPLOC(value), nil
}

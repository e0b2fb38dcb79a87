package cif

import (
	"bytes"
	"fmt"
)

type grammar func(r *fieldReader) (Record, error)

type grammarEntry struct {
	identity RecordIdentity
	parse    grammar
}

// grammars is tried in order and the first tag match commits.
var grammars = []grammarEntry{
	{RecordIdentityHeader, parseHeader},
	{RecordIdentityTIPLOCInsert, parseTIPLOCInsert},
	{RecordIdentityTIPLOCAmend, parseTIPLOCAmend},
	{RecordIdentityAssociation, parseAssociation},
	{RecordIdentityBasicSchedule, parseBasicSchedule},
	{RecordIdentityBasicScheduleExtra, parseBasicScheduleExtra},
	{RecordIdentityOriginLocation, parseOriginLocation},
	{RecordIdentityIntermediateLocation, parseIntermediateLocation},
	{RecordIdentityTerminatingLocation, parseTerminatingLocation},
	{RecordIdentityChangesEnRoute, parseChangesEnRoute},
	{RecordIdentityTrailer, parseTrailer},
}

// Decode reads a single record and its line terminator from the start of buf.
// base is the absolute offset of buf[0] and is only used for diagnostics.
// On success the number of consumed bytes is returned, which is always LineLength.
// On failure nothing is consumed and the error is a *ParseError.
func Decode(buf []byte, base int64) (Record, int, error) {
	entry, err := matchGrammar(buf, base)
	if err != nil {
		return nil, 0, err
	}

	r := newFieldReader(buf, base, entry.identity)
	r.pos = len(entry.identity)

	record, err := entry.parse(r)
	if err != nil {
		return nil, 0, err
	}

	end := r.consumed()
	if end >= len(buf) {
		return nil, 0, incompleteError(buf, end, base, entry.identity, "terminator", 1)
	}
	if buf[end] != '\n' {
		return nil, 0, newParseError(ErrorKindSyntax, buf, end, base, entry.identity, "terminator", fmt.Sprintf("expected line terminator, found %q", buf[end]))
	}

	return record, end + 1, nil
}

func matchGrammar(buf []byte, base int64) (grammarEntry, error) {
	partial := false

	for _, entry := range grammars {
		tag := []byte(entry.identity)

		if bytes.HasPrefix(buf, tag) {
			return entry, nil
		}
		if len(buf) < len(tag) && bytes.HasPrefix(tag, buf) {
			partial = true
		}
	}

	if partial {
		return grammarEntry{}, incompleteError(buf, 0, base, "", "record_identity", 2-len(buf))
	}

	return grammarEntry{}, newParseError(ErrorKindSyntax, buf, 0, base, "", "record_identity", "unrecognised record identity")
}

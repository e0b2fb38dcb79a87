package cif

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/travigo/cifparser/pkg/util"
)

var (
	ErrIncomplete = errors.New("cif: incomplete record")
	ErrSyntax     = errors.New("cif: syntax error")
	ErrValidation = errors.New("cif: validation failure")
)

const snippetLength = 240

type ErrorKind int

const (
	ErrorKindIncomplete ErrorKind = iota
	ErrorKindSyntax
	ErrorKindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindIncomplete:
		return "incomplete"
	case ErrorKindSyntax:
		return "syntax"
	case ErrorKindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ParseError describes why a record could not be decoded. Offset is absolute
// within the input, Identity is empty when no record tag matched.
type ParseError struct {
	Kind     ErrorKind
	Offset   int64
	Identity RecordIdentity
	Field    string
	Reason   string
	Needed   int
	Snippet  string
}

func (e *ParseError) Error() string {
	message := fmt.Sprintf("cif: %s error at offset %d", e.Kind, e.Offset)

	if e.Identity != "" {
		message += fmt.Sprintf(" in %s record", e.Identity)
	}
	if e.Field != "" {
		message += fmt.Sprintf(" field %s", e.Field)
	}
	if e.Reason != "" {
		message += ": " + e.Reason
	}

	return message
}

func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ErrorKindIncomplete:
		return ErrIncomplete
	case ErrorKindSyntax:
		return ErrSyntax
	default:
		return ErrValidation
	}
}

func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("kind", e.Kind.String()).
		Int64("offset", e.Offset).
		Str("identity", string(e.Identity)).
		Str("field", e.Field).
		Str("reason", e.Reason)

	if e.Kind == ErrorKindIncomplete {
		event.Int("needed", e.Needed)
	} else {
		event.Str("snippet", e.Snippet)
	}
}

func newParseError(kind ErrorKind, buf []byte, pos int, base int64, identity RecordIdentity, field string, reason string) *ParseError {
	var snippet string
	if pos <= len(buf) {
		snippet = util.Snippet(buf[pos:], snippetLength)
	}

	return &ParseError{
		Kind:     kind,
		Offset:   base + int64(pos),
		Identity: identity,
		Field:    field,
		Reason:   reason,
		Snippet:  snippet,
	}
}

func incompleteError(buf []byte, pos int, base int64, identity RecordIdentity, field string, needed int) *ParseError {
	err := newParseError(ErrorKindIncomplete, buf, pos, base, identity, field, fmt.Sprintf("needs %d more bytes", needed))
	err.Needed = needed

	return err
}

// truncated reports whether the error is a needs-more-data failure.
func truncated(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

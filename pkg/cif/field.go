package cif

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/travigo/cifparser/pkg/util"
)

// fieldReader walks the fixed-width columns of a single record. Every read
// either consumes exactly the requested width or fails without consuming.
type fieldReader struct {
	buf      []byte
	pos      int
	base     int64
	identity RecordIdentity
}

func newFieldReader(buf []byte, base int64, identity RecordIdentity) *fieldReader {
	return &fieldReader{buf: buf, base: base, identity: identity}
}

func (r *fieldReader) take(name string, width int) ([]byte, error) {
	if available := len(r.buf) - r.pos; available < width {
		return nil, incompleteError(r.buf, r.pos, r.base, r.identity, name, width-available)
	}

	span := r.buf[r.pos : r.pos+width]
	r.pos += width

	return span, nil
}

func (r *fieldReader) fail(kind ErrorKind, at int, name string, reason string) error {
	return newParseError(kind, r.buf, at, r.base, r.identity, name, reason)
}

// raw returns the span untouched, padding included.
func (r *fieldReader) raw(name string, width int) (string, error) {
	span, err := r.take(name, width)
	if err != nil {
		return "", err
	}

	return decodeText(span), nil
}

// optional returns the trimmed span, or "" when the span is blank.
func (r *fieldReader) optional(name string, width int) (string, error) {
	span, err := r.take(name, width)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(decodeText(span)), nil
}

func (r *fieldReader) mandatory(name string, width int) (string, error) {
	start := r.pos

	value, err := r.optional(name, width)
	if err != nil {
		return "", err
	}
	if value == "" {
		r.pos = start
		return "", r.fail(ErrorKindValidation, start, name, "mandatory field is blank")
	}

	return value, nil
}

// spare consumes a padding region that must only hold spaces. Bytes already
// received are checked before asking for more.
func (r *fieldReader) spare(name string, width int) error {
	start := r.pos

	visible := r.buf[start:min(len(r.buf), start+width)]
	if !util.IsBlank(visible) {
		return r.fail(ErrorKindSyntax, start+bytes.IndexFunc(visible, notSpace), name, "spare region is not blank")
	}

	_, err := r.take(name, width)
	return err
}

// skip consumes a column whose content is not decoded.
func (r *fieldReader) skip(name string, width int) error {
	_, err := r.take(name, width)
	return err
}

func (r *fieldReader) char(name string, allowed string) (byte, error) {
	start := r.pos

	span, err := r.take(name, 1)
	if err != nil {
		return 0, err
	}
	if strings.IndexByte(allowed, span[0]) < 0 {
		r.pos = start
		return 0, r.fail(ErrorKindValidation, start, name, fmt.Sprintf("unexpected value %q, expected one of %q", span[0], allowed))
	}

	return span[0], nil
}

func (r *fieldReader) consumed() int {
	return r.pos
}

func decodeText(span []byte) string {
	if utf8.Valid(span) {
		return string(span)
	}

	return strings.ToValidUTF8(string(span), string(utf8.RuneError))
}

func notSpace(r rune) bool {
	return r != ' '
}

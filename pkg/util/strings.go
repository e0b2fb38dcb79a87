package util

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// Snippet renders at most length bytes of b for diagnostics, replacing invalid
// UTF-8 and marking truncation with an ellipsis.
func Snippet(b []byte, length int) string {
	truncated := len(b) > length
	if truncated {
		b = b[:length]
	}

	snippet := strings.ToValidUTF8(string(b), string(utf8.RuneError))
	if truncated {
		snippet += ellipsis
	}

	return snippet
}

func IsBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}

	return true
}

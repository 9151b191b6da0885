// Package scan provides the delimiter primitives the HTTP framer is built from.
//
// Every function returns sub-slices of its input. Nothing is copied, so callers
// that keep a result beyond the lifetime of the input buffer must copy it.
package scan

import (
	"bytes"
	"errors"
)

var (
	// ErrNotFound is returned when a delimiter never occurs in the haystack.
	ErrNotFound = errors.New("scan: delimiter not found")
	// ErrMismatchedPrefix is returned when the haystack does not begin with the delimiter.
	ErrMismatchedPrefix = errors.New("scan: mismatched prefix")
)

// Common wire delimiters.
var (
	CRLF      = []byte("\r\n")
	CRLFCRLF  = []byte("\r\n\r\n")
	Space     = []byte(" ")
	ColonStep = []byte(": ")
)

// SplitBefore splits haystack at the first occurrence of delim. The returned
// rest still begins with delim.
func SplitBefore(haystack, delim []byte) (prefix, rest []byte, err error) {
	i := bytes.Index(haystack, delim)
	if i < 0 {
		return nil, nil, ErrNotFound
	}
	return haystack[:i], haystack[i:], nil
}

// Consume strips delim from the front of haystack.
func Consume(haystack, delim []byte) ([]byte, error) {
	if !bytes.HasPrefix(haystack, delim) {
		return nil, ErrMismatchedPrefix
	}
	return haystack[len(delim):], nil
}

// SplitAndConsume splits haystack at the first occurrence of delim and drops
// the delimiter itself.
func SplitAndConsume(haystack, delim []byte) (prefix, remainder []byte, err error) {
	prefix, rest, err := SplitBefore(haystack, delim)
	if err != nil {
		return nil, nil, err
	}
	remainder, err = Consume(rest, delim)
	if err != nil {
		return nil, nil, err
	}
	return prefix, remainder, nil
}

// Cut is SplitAndConsume for callers that treat a missing delimiter as a
// normal outcome. When delim is absent, prefix is the whole haystack.
func Cut(haystack, delim []byte) (prefix, remainder []byte, found bool) {
	prefix, remainder, err := SplitAndConsume(haystack, delim)
	if err != nil {
		return haystack, nil, false
	}
	return prefix, remainder, true
}

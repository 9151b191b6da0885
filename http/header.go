package http

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	HeaderDate          = "Date"
	HeaderHost          = "Host"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderConnection    = "Connection"
)

const (
	MimeTextPlain       = "text/plain"
	MimeApplicationJSON = "application/json"
)

// DateFormat is the layout of the Date header. Times must be in UTC.
const DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

var now = time.Now

// Headers maps header names to values. Names are compared exactly as stored:
// no case folding is performed, and a later value for the same name replaces
// the earlier one.
type Headers map[string]string

// Get returns the value stored under key.
func (h Headers) Get(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (h Headers) Set(key, value string) {
	h[key] = value
}

// Del removes key.
func (h Headers) Del(key string) {
	delete(h, key)
}

// Clone returns a copy of h. Clone of a nil map is an empty map.
func (h Headers) Clone() Headers {
	clone := make(Headers, len(h))
	for k, v := range h {
		clone[k] = v
	}
	return clone
}

// Keys returns the header names in ascending order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// defaultHeaders returns the headers every new response starts with.
// Host is left to the server, which knows the bound address.
func defaultHeaders() Headers {
	return Headers{
		HeaderDate:          now().UTC().Format(DateFormat),
		HeaderContentLength: "0",
		HeaderContentType:   MimeTextPlain,
		HeaderConnection:    "close",
	}
}

// appendHeaders writes h in ascending key order followed by a Content-Length
// line carrying contentLength. Stored Content-Length values, in any letter
// case, are never written.
func appendHeaders(dst []byte, h Headers, contentLength int) []byte {
	keys := make([]string, 0, len(h)+1)
	for k := range h {
		if !isContentLength(k) {
			keys = append(keys, k)
		}
	}
	keys = append(keys, HeaderContentLength)
	slices.Sort(keys)

	for _, k := range keys {
		dst = append(dst, k...)
		dst = append(dst, ": "...)
		if k == HeaderContentLength {
			dst = strconv.AppendInt(dst, int64(contentLength), 10)
		} else {
			dst = append(dst, h[k]...)
		}
		dst = append(dst, "\r\n"...)
	}
	return dst
}

// setContentLength replaces every Content-Length spelling with the canonical one.
func setContentLength(h Headers, n int) {
	for k := range h {
		if isContentLength(k) {
			delete(h, k)
		}
	}
	h[HeaderContentLength] = strconv.Itoa(n)
}

func isContentLength(key string) bool {
	return strings.EqualFold(key, HeaderContentLength)
}

// decodeLossy converts wire bytes to text. Invalid UTF-8 is replaced with
// U+FFFD, never rejected.
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

package http

import "fmt"

// Version is a protocol version label. It has no effect on framing.
// The zero value is HTTP11.
type Version uint8

const (
	HTTP11 Version = iota
	HTTP10
	HTTP2
)

var versionNames = [...]string{
	HTTP11: "HTTP/1.1",
	HTTP10: "HTTP/1.0",
	HTTP2:  "HTTP/2",
}

func (v Version) String() string {
	if int(v) < len(versionNames) {
		return versionNames[v]
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}

// LookupVersion maps wire text to a Version. The match is exact.
func LookupVersion(text string) (Version, bool) {
	for v, name := range versionNames {
		if name == text {
			return Version(v), true
		}
	}
	return HTTP11, false
}

// ParseVersion is the lenient form of LookupVersion: unrecognized text maps to
// HTTP11.
func ParseVersion(text string) Version {
	v, _ := LookupVersion(text)
	return v
}

package http

import "fmt"

// Method is a request method. The zero value is MethodGet.
type Method uint8

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
	MethodHead
	MethodOptions
	MethodConnect
	MethodTrace
)

var methodNames = [...]string{
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodPatch:   "PATCH",
	MethodHead:    "HEAD",
	MethodOptions: "OPTIONS",
	MethodConnect: "CONNECT",
	MethodTrace:   "TRACE",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// LookupMethod maps wire text to a Method. The match is exact.
func LookupMethod(text string) (Method, bool) {
	for m, name := range methodNames {
		if name == text {
			return Method(m), true
		}
	}
	return MethodGet, false
}

// ParseMethod is the lenient form of LookupMethod: unrecognized text maps to
// MethodGet instead of failing.
func ParseMethod(text string) Method {
	m, _ := LookupMethod(text)
	return m
}

package http

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming means the blank line ending the header block was not found.
	ErrFraming = errors.New("http: header/body delimiter not found")

	// ErrParseHeader means the start-line has no space at all.
	ErrParseHeader = errors.New("http: parse header error")

	ErrInvalidVersion = errors.New("http: invalid version")
	ErrInvalidMethod  = errors.New("http: invalid method")
	ErrInvalidURI     = errors.New("http: invalid uri")

	// ErrRead wraps I/O failures while reading a request.
	ErrRead = errors.New("http: read request error")

	// ErrEmptyRequest means the peer sent no bytes.
	ErrEmptyRequest = errors.New("http: empty request")

	ErrServerClosed = errors.New("http: server closed")
)

// ParseError is returned by the framer. Err is one of the sentinel errors above.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

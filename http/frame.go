package http

import (
	"bytes"

	"github.com/freekieb7/hearth/scan"
)

// SplitMessage splits buf at the first blank line into the header block and
// the body. The body may be empty. A buffer without a blank line fails with
// ErrFraming: the caller must have read at least the whole header block.
func SplitMessage(buf []byte) (head, body []byte, err error) {
	head, body, err = scan.SplitAndConsume(buf, scan.CRLFCRLF)
	if err != nil {
		return nil, nil, &ParseError{Op: "split message", Err: ErrFraming}
	}
	return head, body, nil
}

// SplitStartLine returns the first line of head and the header lines that
// follow it. A head without CRLF is a start-line with no headers.
func SplitStartLine(head []byte) (startLine, headerLines []byte) {
	startLine, headerLines, _ = scan.Cut(head, scan.CRLF)
	return startLine, headerLines
}

// ParseStartLine splits line on its first two spaces. For a request the
// tokens are method, path and version. The third token runs to the end of
// the line, so it may contain spaces.
func ParseStartLine(line []byte) (first, second, third string, err error) {
	a, rest, err := scan.SplitAndConsume(line, scan.Space)
	if err != nil {
		return "", "", "", &ParseError{Op: "parse start line", Err: ErrParseHeader}
	}
	b, c, err := scan.SplitAndConsume(rest, scan.Space)
	if err != nil {
		return "", "", "", &ParseError{Op: "parse start line", Err: ErrInvalidVersion}
	}

	switch {
	case len(a) == 0:
		return "", "", "", &ParseError{Op: "parse start line", Err: ErrInvalidMethod}
	case len(b) == 0:
		return "", "", "", &ParseError{Op: "parse start line", Err: ErrInvalidURI}
	case len(c) == 0:
		return "", "", "", &ParseError{Op: "parse start line", Err: ErrInvalidVersion}
	}
	return decodeLossy(a), decodeLossy(b), decodeLossy(c), nil
}

// ParseHeaderLines decodes CRLF separated "key: value" lines. Blank lines,
// lines without ": " and lines with an empty key are skipped.
func ParseHeaderLines(block []byte) Headers {
	headers := make(Headers)
	for len(block) > 0 {
		var line []byte
		line, block, _ = scan.Cut(block, scan.CRLF)
		if len(line) == 0 {
			continue
		}

		key, value, err := scan.SplitAndConsume(line, scan.ColonStep)
		if err != nil || len(key) == 0 {
			continue
		}
		headers[decodeLossy(key)] = decodeLossy(value)
	}
	return headers
}

// ParseRequest frames buf into a Request. Unrecognized method or version
// text falls back to GET and HTTP/1.1. The body is copied out of buf.
func ParseRequest(buf []byte) (*Request, error) {
	head, body, err := SplitMessage(buf)
	if err != nil {
		return nil, err
	}

	startLine, headerLines := SplitStartLine(head)
	method, path, version, err := ParseStartLine(startLine)
	if err != nil {
		return nil, err
	}

	return &Request{
		message: message{
			version: ParseVersion(version),
			headers: ParseHeaderLines(headerLines),
			body:    bytes.Clone(body),
		},
		method: ParseMethod(method),
		path:   path,
	}, nil
}

// ParseResponse frames buf into a Response. The status line is
// "<version> <code> [<reason>]"; the reason phrase is optional and ignored in
// favor of the code. Unrecognized codes fall back to 404.
func ParseResponse(buf []byte) (*Response, error) {
	head, body, err := SplitMessage(buf)
	if err != nil {
		return nil, err
	}

	startLine, headerLines := SplitStartLine(head)
	version, rest, err := scan.SplitAndConsume(startLine, scan.Space)
	if err != nil || len(version) == 0 {
		return nil, &ParseError{Op: "parse status line", Err: ErrInvalidVersion}
	}
	code, _, _ := scan.Cut(rest, scan.Space)
	if len(code) == 0 {
		return nil, &ParseError{Op: "parse status line", Err: ErrParseHeader}
	}

	return &Response{
		message: message{
			version: ParseVersion(decodeLossy(version)),
			headers: ParseHeaderLines(headerLines),
			body:    bytes.Clone(body),
		},
		status: ParseStatus(decodeLossy(code)),
	}, nil
}
